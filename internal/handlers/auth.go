package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lottery-settlement/internal/models"
	"lottery-settlement/internal/services"
)

// AuthHandler issues bearer tokens. Role grants come from deploy-time
// configuration, never from the request.
type AuthHandler struct {
	jwt    *services.JWTService
	grants map[string][]string
}

func NewAuthHandler(jwt *services.JWTService, grants map[string][]string) *AuthHandler {
	return &AuthHandler{jwt: jwt, grants: grants}
}

func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req models.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var roles []string
	for role, principals := range h.grants {
		for _, p := range principals {
			if p == req.UserID {
				roles = append(roles, role)
			}
		}
	}

	token, err := h.jwt.IssueToken(req.UserID, roles)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, models.TokenResponse{Token: token})
}
