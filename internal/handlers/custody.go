package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lottery-settlement/internal/services"
)

// CustodyHandler exposes the caller's custody account: the funding side of
// ticket purchases and the landing side of payouts.
type CustodyHandler struct {
	ledger services.ValueLedger
}

func NewCustodyHandler(ledger services.ValueLedger) *CustodyHandler {
	return &CustodyHandler{ledger: ledger}
}

type depositRequest struct {
	Amount uint64 `json:"amount" binding:"required"`
}

func (h *CustodyHandler) Deposit(c *gin.Context) {
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.ledger.Deposit(c.Request.Context(), userID(c), req.Amount); err != nil {
		respondError(c, err)
		return
	}

	balance, err := h.ledger.Balance(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

func (h *CustodyHandler) Balance(c *gin.Context) {
	balance, err := h.ledger.Balance(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}
