package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"lottery-settlement/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler fans emitted records out to connected clients. It is the
// live view of the same audit stream the event log keeps.
type WebSocketHandler struct {
	hub *WebSocketHub
	log *zap.Logger
}

type WebSocketHub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
}

type Client struct {
	UserID string
	Conn   *websocket.Conn
}

type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

func NewWebSocketHandler(log *zap.Logger) *WebSocketHandler {
	if log == nil {
		log = zap.NewNop()
	}

	hub := &WebSocketHub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
	}

	go hub.run()

	return &WebSocketHandler{hub: hub, log: log}
}

// PublishEvent satisfies services.EventPublisher. A full broadcast buffer
// drops the message rather than stalling a settlement operation.
func (h *WebSocketHandler) PublishEvent(event *models.Event) {
	select {
	case h.hub.broadcast <- &Message{Type: "EVENT", Data: event}:
	default:
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		UserID: userID(c),
		Conn:   conn,
	}

	h.hub.register <- client

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("websocket read error", zap.Error(err))
			}
			break
		}

		if msg.Type == "PING" {
			conn.WriteJSON(&Message{Type: "PONG"})
		}
	}
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.clients[client] = struct{}{}
		case client := <-hub.unregister:
			delete(hub.clients, client)
		case msg := <-hub.broadcast:
			for client := range hub.clients {
				if err := client.Conn.WriteJSON(msg); err != nil {
					client.Conn.Close()
					delete(hub.clients, client)
				}
			}
		}
	}
}
