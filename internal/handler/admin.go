package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toolbay/internal/repository"
	"toolbay/internal/service"
)

type AdminHandler interface {
	Login(c *gin.Context)
	ApproveTool(c *gin.Context)
	RejectTool(c *gin.Context)
	BanUser(c *gin.Context)
	UnbanUser(c *gin.Context)
	AdjustTrust(c *gin.Context)
	ListFeedback(c *gin.Context)
}

type adminHandler struct {
	admins     service.AdminService
	identities service.IdentityService
	feedback   repository.FeedbackRepository
	logger     *zap.Logger
}

func NewAdminHandler(
	admins service.AdminService,
	identities service.IdentityService,
	feedback repository.FeedbackRepository,
	logger *zap.Logger,
) AdminHandler {
	return &adminHandler{admins: admins, identities: identities, feedback: feedback, logger: logger}
}

type adminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/admin/login.
func (h *adminHandler) Login(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	token, expiresAt, err := h.admins.Login(req.Password)
	if err != nil {
		serviceError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"token": token, "expires_at": expiresAt})
}

// ApproveTool handles POST /api/admin/tools/:id/approve.
func (h *adminHandler) ApproveTool(c *gin.Context) {
	tool, err := h.admins.ApproveTool(c.Param("id"))
	if err != nil {
		serviceError(c, h.logger, err)
		return
	}

	respondMessage(c, http.StatusOK, "Tool approved", gin.H{"tool": tool})
}

// RejectTool handles POST /api/admin/tools/:id/reject. Rejection is a soft
// delete; the row stays for the audit trail.
func (h *adminHandler) RejectTool(c *gin.Context) {
	if err := h.admins.RejectTool(c.Param("id")); err != nil {
		serviceError(c, h.logger, err)
		return
	}

	respondMessage(c, http.StatusOK, "Tool rejected", nil)
}

type banRequest struct {
	Reason string `json:"reason"`
}

// BanUser handles POST /api/admin/users/:id/ban.
func (h *adminHandler) BanUser(c *gin.Context) {
	// The reason is optional; an empty body is fine.
	var req banRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.identities.Ban(c.Param("id"), req.Reason, adminActor(c)); err != nil {
		serviceError(c, h.logger, err)
		return
	}

	respondMessage(c, http.StatusOK, "User banned", nil)
}

// UnbanUser handles POST /api/admin/users/:id/unban.
func (h *adminHandler) UnbanUser(c *gin.Context) {
	if err := h.identities.Unban(c.Param("id"), adminActor(c)); err != nil {
		serviceError(c, h.logger, err)
		return
	}

	respondMessage(c, http.StatusOK, "User unbanned", nil)
}

type trustRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// AdjustTrust handles POST /api/admin/users/:id/trust.
func (h *adminHandler) AdjustTrust(c *gin.Context) {
	var req trustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	score, err := h.identities.AdjustTrust(c.Param("id"), req.Delta, req.Reason, adminActor(c))
	if err != nil {
		serviceError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"trust_score": score})
}

// ListFeedback handles GET /api/admin/feedback.
func (h *adminHandler) ListFeedback(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.feedback.List(limit, offset)
	if err != nil {
		h.logger.Error("Failed to list feedback", zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "Failed to retrieve feedback")
		return
	}

	respond(c, http.StatusOK, gin.H{"feedback": items, "count": len(items)})
}

func adminActor(c *gin.Context) string {
	if role := c.GetString("admin_role"); role != "" {
		return role
	}
	return "admin"
}
