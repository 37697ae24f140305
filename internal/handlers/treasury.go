package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lottery-settlement/internal/models"
	"lottery-settlement/internal/services"
)

type TreasuryHandler struct {
	treasury *services.TreasuryService
	jwt      *services.JWTService
	log      *zap.Logger
}

func NewTreasuryHandler(treasury *services.TreasuryService, jwt *services.JWTService, log *zap.Logger) *TreasuryHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TreasuryHandler{treasury: treasury, jwt: jwt, log: log}
}

func (h *TreasuryHandler) Get(c *gin.Context) {
	treasury, err := h.treasury.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, treasury)
}

// Withdraw requires the caller to be the treasury authority and to present
// a co-signer token issued to a distinct principal.
func (h *TreasuryHandler) Withdraw(c *gin.Context) {
	var req models.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coClaims, err := h.jwt.ValidateToken(req.CoSignerToken)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid co-signer token"})
		return
	}

	treasury, err := h.treasury.Withdraw(c.Request.Context(), req.Amount, userID(c), coClaims.UserID, req.Destination)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, treasury)
}
