package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toolbay/internal/middleware"
	"toolbay/internal/repository"
	"toolbay/internal/service"
)

type ToolHandler interface {
	List(c *gin.Context)
	GetByID(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type toolHandler struct {
	tools       repository.ToolRepository
	submissions service.SubmissionService
	logger      *zap.Logger
}

func NewToolHandler(tools repository.ToolRepository, submissions service.SubmissionService, logger *zap.Logger) ToolHandler {
	return &toolHandler{tools: tools, submissions: submissions, logger: logger}
}

// List handles GET /api/tools
func (h *toolHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	tools, err := h.tools.List(repository.ToolFilter{
		CategoryID: c.Query("category"),
		Pricing:    c.Query("pricing"),
		Search:     c.Query("search"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		h.logger.Error("Failed to list tools", zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "Failed to retrieve tools")
		return
	}

	respond(c, http.StatusOK, gin.H{"tools": tools, "count": len(tools)})
}

// GetByID handles GET /api/tools/:toolId
func (h *toolHandler) GetByID(c *gin.Context) {
	tool, err := h.tools.GetByID(c.Param("toolId"))
	if err != nil {
		h.logger.Error("Failed to get tool", zap.String("id", c.Param("toolId")), zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "Failed to retrieve tool")
		return
	}
	if tool == nil {
		respondError(c, http.StatusNotFound, CodeToolNotFound, "Tool not found")
		return
	}

	respond(c, http.StatusOK, gin.H{"tool": tool})
}

// Create handles POST /api/tools
func (h *toolHandler) Create(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		respondError(c, http.StatusServiceUnavailable, "IDENTITY_UNAVAILABLE", "Identity could not be resolved")
		return
	}

	var req service.SubmitToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	tool, err := h.submissions.SubmitTool(identity, req)
	if err != nil {
		serviceError(c, h.logger, err)
		return
	}

	respondMessage(c, http.StatusCreated, "Tool created successfully", gin.H{"tool": tool})
}

// UpdateToolRequest carries a partial tool update.
type UpdateToolRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	CategoryID  *string  `json:"category_id"`
	Pricing     *string  `json:"pricing"`
	Tags        []string `json:"tags"`
}

// Update handles PUT /api/tools/:toolId
func (h *toolHandler) Update(c *gin.Context) {
	var req UpdateToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}
	if req.Name == nil && req.Description == nil && req.CategoryID == nil && req.Pricing == nil && req.Tags == nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "No update fields provided")
		return
	}

	tool, err := h.tools.GetByID(c.Param("toolId"))
	if err != nil {
		h.logger.Error("Failed to get tool for update", zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "Failed to update tool")
		return
	}
	if tool == nil {
		respondError(c, http.StatusNotFound, CodeToolNotFound, "Tool not found")
		return
	}

	if req.Name != nil {
		tool.Name = *req.Name
	}
	if req.Description != nil {
		tool.Description = *req.Description
	}
	if req.CategoryID != nil {
		tool.CategoryID = req.CategoryID
	}
	if req.Pricing != nil {
		tool.Pricing = *req.Pricing
	}
	if req.Tags != nil {
		tool.Tags = req.Tags
	}

	if err := h.tools.Update(tool); err != nil {
		if err == repository.ErrConflict {
			respondError(c, http.StatusConflict, CodeDuplicateURL, "A tool with this URL already exists")
			return
		}
		h.logger.Error("Failed to update tool", zap.String("id", tool.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "Failed to update tool")
		return
	}

	respondMessage(c, http.StatusOK, "Tool updated successfully", gin.H{"tool": tool})
}

// Delete handles DELETE /api/tools/:toolId (soft delete)
func (h *toolHandler) Delete(c *gin.Context) {
	if err := h.tools.SoftDelete(c.Param("toolId")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, http.StatusNotFound, CodeToolNotFound, "Tool not found")
			return
		}
		h.logger.Error("Failed to delete tool", zap.String("id", c.Param("toolId")), zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "Failed to delete tool")
		return
	}

	respondMessage(c, http.StatusOK, "Tool deleted successfully", nil)
}
