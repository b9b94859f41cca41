package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toolbay/internal/middleware"
	"toolbay/internal/models"
	"toolbay/internal/service"
)

type VoteHandler interface {
	Toggle(c *gin.Context)
}

type voteHandler struct {
	votes  service.VoteService
	logger *zap.Logger
}

func NewVoteHandler(votes service.VoteService, logger *zap.Logger) VoteHandler {
	return &voteHandler{votes: votes, logger: logger}
}

type toggleVoteRequest struct {
	VoteType string `json:"vote_type" binding:"required"`
}

// Toggle handles POST /api/opinions/:opinionId/votes. A first cast answers
// 201; a repeat or a flip answers 200.
func (h *voteHandler) Toggle(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	var req toggleVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	result, err := h.votes.Toggle(identity, c.Param("opinionId"), req.VoteType)
	if err != nil {
		serviceError(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if result.Action == models.VoteActionCreated {
		status = http.StatusCreated
	}
	respond(c, status, result)
}
