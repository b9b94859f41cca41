package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toolbay/internal/middleware"
	"toolbay/internal/service"
)

type FeedbackHandler interface {
	Create(c *gin.Context)
}

type feedbackHandler struct {
	submissions service.SubmissionService
	logger      *zap.Logger
}

func NewFeedbackHandler(submissions service.SubmissionService, logger *zap.Logger) FeedbackHandler {
	return &feedbackHandler{submissions: submissions, logger: logger}
}

type createFeedbackRequest struct {
	Subject string  `json:"subject" binding:"required"`
	Message string  `json:"message" binding:"required"`
	Email   *string `json:"email"`
}

// Create handles POST /api/feedback.
func (h *feedbackHandler) Create(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	var req createFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	feedback, err := h.submissions.SubmitFeedback(identity, req.Subject, req.Message, req.Email)
	if err != nil {
		serviceError(c, h.logger, err)
		return
	}

	respondMessage(c, http.StatusCreated, "Feedback submitted successfully", gin.H{"feedback": feedback})
}
