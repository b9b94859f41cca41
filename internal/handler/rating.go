package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toolbay/internal/middleware"
	"toolbay/internal/service"
)

type RatingHandler interface {
	Submit(c *gin.Context)
	MyRating(c *gin.Context)
}

type ratingHandler struct {
	submissions service.SubmissionService
	logger      *zap.Logger
}

func NewRatingHandler(submissions service.SubmissionService, logger *zap.Logger) RatingHandler {
	return &ratingHandler{submissions: submissions, logger: logger}
}

type submitRatingRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// Submit handles POST /api/tools/:toolId/ratings. The write is an upsert:
// the first rating from an identity answers 201, later revisions 200.
func (h *ratingHandler) Submit(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	var req submitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	result, err := h.submissions.SubmitRating(identity, c.Param("toolId"), req.Rating)
	if err != nil {
		serviceError(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	respond(c, status, result)
}

// MyRating handles GET /api/tools/:toolId/my-rating.
func (h *ratingHandler) MyRating(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		respond(c, http.StatusOK, gin.H{"rating": nil})
		return
	}

	rating, err := h.submissions.MyRating(identity, c.Param("toolId"))
	if err != nil {
		serviceError(c, h.logger, err)
		return
	}
	if rating == nil {
		respond(c, http.StatusOK, gin.H{"rating": nil})
		return
	}

	respond(c, http.StatusOK, gin.H{"rating": rating})
}
