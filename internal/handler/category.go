package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toolbay/internal/repository"
)

type CategoryHandler interface {
	List(c *gin.Context)
}

type categoryHandler struct {
	categories repository.CategoryRepository
	logger     *zap.Logger
}

func NewCategoryHandler(categories repository.CategoryRepository, logger *zap.Logger) CategoryHandler {
	return &categoryHandler{categories: categories, logger: logger}
}

// List handles GET /api/categories
func (h *categoryHandler) List(c *gin.Context) {
	categories, err := h.categories.GetActive()
	if err != nil {
		h.logger.Error("Failed to get categories", zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "Failed to retrieve categories")
		return
	}

	respond(c, http.StatusOK, gin.H{"categories": categories})
}
