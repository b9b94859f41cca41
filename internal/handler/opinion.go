package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toolbay/internal/middleware"
	"toolbay/internal/repository"
	"toolbay/internal/service"
)

type OpinionHandler interface {
	ListByTool(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	MyOpinion(c *gin.Context)
}

type opinionHandler struct {
	opinions    repository.OpinionRepository
	submissions service.SubmissionService
	logger      *zap.Logger
}

func NewOpinionHandler(opinions repository.OpinionRepository, submissions service.SubmissionService, logger *zap.Logger) OpinionHandler {
	return &opinionHandler{opinions: opinions, submissions: submissions, logger: logger}
}

// ListByTool handles GET /api/tools/:toolId/opinions
func (h *opinionHandler) ListByTool(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	opinions, err := h.opinions.ListByTool(c.Param("toolId"), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list opinions", zap.String("tool_id", c.Param("toolId")), zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "Failed to retrieve opinions")
		return
	}

	respond(c, http.StatusOK, gin.H{"opinions": opinions, "count": len(opinions)})
}

// Create handles POST /api/tools/:toolId/opinions
func (h *opinionHandler) Create(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	var req service.SubmitOpinionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	opinion, err := h.submissions.SubmitOpinion(identity, c.Param("toolId"), req)
	if err != nil {
		serviceError(c, h.logger, err)
		return
	}

	respondMessage(c, http.StatusCreated, "Opinion created successfully", gin.H{"opinion": opinion})
}

// Update handles PUT /api/opinions/:opinionId
func (h *opinionHandler) Update(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	var req service.SubmitOpinionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	opinion, err := h.submissions.UpdateOpinion(identity, c.Param("opinionId"), req)
	if err != nil {
		serviceError(c, h.logger, err)
		return
	}

	respondMessage(c, http.StatusOK, "Opinion updated successfully", gin.H{"opinion": opinion})
}

// MyOpinion handles GET /api/tools/:toolId/my-opinion. Responds 200 with a
// null opinion when the caller has not written one yet.
func (h *opinionHandler) MyOpinion(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		respond(c, http.StatusOK, gin.H{"opinion": nil})
		return
	}

	opinion, err := h.submissions.MyOpinion(identity, c.Param("toolId"))
	if err != nil {
		serviceError(c, h.logger, err)
		return
	}
	if opinion == nil {
		respond(c, http.StatusOK, gin.H{"opinion": nil})
		return
	}

	respond(c, http.StatusOK, gin.H{"opinion": opinion})
}
