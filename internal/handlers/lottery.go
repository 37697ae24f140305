package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lottery-settlement/internal/models"
	"lottery-settlement/internal/services"
)

type LotteryHandler struct {
	engine *services.LotteryEngine
	log    *zap.Logger
}

func NewLotteryHandler(engine *services.LotteryEngine, log *zap.Logger) *LotteryHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LotteryHandler{engine: engine, log: log}
}

func category(c *gin.Context) (models.Category, bool) {
	cat := models.Category(c.Param("category"))
	if !cat.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrInvalidCategory.Error()})
		return "", false
	}
	return cat, true
}

func userID(c *gin.Context) string {
	id, _ := c.Get("user_id")
	s, _ := id.(string)
	return s
}

// respondError maps the settlement error taxonomy onto HTTP statuses. Guard
// rejections are client errors; everything else is operational.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrRoundNotFound),
		errors.Is(err, services.ErrTreasuryNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidTicketPrice),
		errors.Is(err, services.ErrTicketLimit):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidRoundState),
		errors.Is(err, services.ErrRoundExists),
		errors.Is(err, services.ErrSaleWindowOpen),
		errors.Is(err, services.ErrSaleWindowClosed),
		errors.Is(err, services.ErrMinPoolNotReached),
		errors.Is(err, services.ErrNotWinner),
		errors.Is(err, services.ErrPrizeAlreadyClaimed),
		errors.Is(err, services.ErrPrizeNotClaimed),
		errors.Is(err, services.ErrClaimWindowExpired),
		errors.Is(err, services.ErrClaimWindowActive),
		errors.Is(err, services.ErrTimelockActive),
		errors.Is(err, services.ErrInsufficientFunds):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *LotteryHandler) ListRounds(c *gin.Context) {
	rounds, err := h.engine.ListRounds(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rounds)
}

func (h *LotteryHandler) GetRound(c *gin.Context) {
	cat, ok := category(c)
	if !ok {
		return
	}
	round, err := h.engine.GetRound(c.Request.Context(), cat)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, round)
}

func (h *LotteryHandler) CreateRound(c *gin.Context) {
	cat, ok := category(c)
	if !ok {
		return
	}

	var req models.CreateRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	round, err := h.engine.CreateRound(c.Request.Context(), cat, req.TicketPrice)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, round)
}

func (h *LotteryHandler) BuyTickets(c *gin.Context) {
	cat, ok := category(c)
	if !ok {
		return
	}

	var req models.BuyTicketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	round, err := h.engine.BuyTickets(c.Request.Context(), cat, userID(c), req.Count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, round)
}

func (h *LotteryHandler) ScheduleDraw(c *gin.Context) {
	cat, ok := category(c)
	if !ok {
		return
	}
	round, err := h.engine.ScheduleDraw(c.Request.Context(), cat)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, round)
}

func (h *LotteryHandler) ExecuteDraw(c *gin.Context) {
	cat, ok := category(c)
	if !ok {
		return
	}
	round, err := h.engine.ExecuteDraw(c.Request.Context(), cat)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, round)
}

func (h *LotteryHandler) ClaimPrize(c *gin.Context) {
	cat, ok := category(c)
	if !ok {
		return
	}

	var req models.ClaimPrizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.engine.ClaimPrize(c.Request.Context(), cat, userID(c), req.Digits())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *LotteryHandler) DistributePrize(c *gin.Context) {
	cat, ok := category(c)
	if !ok {
		return
	}
	round, err := h.engine.DistributePrize(c.Request.Context(), cat)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, round)
}

func (h *LotteryHandler) RecycleUnclaimed(c *gin.Context) {
	cat, ok := category(c)
	if !ok {
		return
	}
	round, err := h.engine.RecycleUnclaimed(c.Request.Context(), cat)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, round)
}

func (h *LotteryHandler) ListPurchases(c *gin.Context) {
	purchases, err := h.engine.ListPurchases(c.Request.Context(), userID(c), 50)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, purchases)
}

func (h *LotteryHandler) RecentEvents(c *gin.Context) {
	events, err := h.engine.RecentEvents(c.Request.Context(), 50)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}
