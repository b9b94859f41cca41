package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toolbay/internal/fingerprint"
	"toolbay/internal/middleware"
)

type UserHandler interface {
	Me(c *gin.Context)
}

type userHandler struct {
	logger *zap.Logger
}

func NewUserHandler(logger *zap.Logger) UserHandler {
	return &userHandler{logger: logger}
}

// Me handles GET /api/users/me. The identity is whatever the fingerprint
// resolved to; the display name is derived, never stored.
func (h *userHandler) Me(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	respond(c, http.StatusOK, gin.H{
		"user": gin.H{
			"id":                  identity.ID,
			"display_name":        fingerprint.DisplayName(identity.Fingerprint),
			"trust_score":         identity.TrustScore,
			"total_contributions": identity.TotalContributions,
			"total_votes":         identity.TotalVotes,
			"created_at":          identity.CreatedAt,
			"last_active":         identity.LastActive,
		},
	})
}
