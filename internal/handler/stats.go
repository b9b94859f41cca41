package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toolbay/internal/repository"
)

type StatsHandler interface {
	Get(c *gin.Context)
}

type statsHandler struct {
	tools    repository.ToolRepository
	opinions repository.OpinionRepository
	users    repository.UserRepository
	logger   *zap.Logger
}

func NewStatsHandler(
	tools repository.ToolRepository,
	opinions repository.OpinionRepository,
	users repository.UserRepository,
	logger *zap.Logger,
) StatsHandler {
	return &statsHandler{tools: tools, opinions: opinions, users: users, logger: logger}
}

// Get handles GET /api/stats.
func (h *statsHandler) Get(c *gin.Context) {
	toolCount, err := h.tools.CountActive()
	if err != nil {
		h.logger.Error("Failed to count tools", zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "Failed to retrieve stats")
		return
	}
	opinionCount, err := h.opinions.Count()
	if err != nil {
		h.logger.Error("Failed to count opinions", zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "Failed to retrieve stats")
		return
	}
	userCount, err := h.users.Count()
	if err != nil {
		h.logger.Error("Failed to count users", zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "Failed to retrieve stats")
		return
	}

	respond(c, http.StatusOK, gin.H{
		"total_tools":    toolCount,
		"total_opinions": opinionCount,
		"total_users":    userCount,
	})
}
