package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toolbay/internal/broadcast"
)

type EventsHandler interface {
	Global(c *gin.Context)
	Tool(c *gin.Context)
}

type eventsHandler struct {
	hub    *broadcast.Hub
	logger *zap.Logger
}

func NewEventsHandler(hub *broadcast.Hub, logger *zap.Logger) EventsHandler {
	return &eventsHandler{hub: hub, logger: logger}
}

// Global handles GET /api/events: a server-sent event stream of site-wide
// changes (new tools, approvals).
func (h *eventsHandler) Global(c *gin.Context) {
	h.stream(c, broadcast.GlobalRoom)
}

// Tool handles GET /api/tools/:toolId/events: changes scoped to one tool
// (opinions, votes, ratings).
func (h *eventsHandler) Tool(c *gin.Context) {
	h.stream(c, broadcast.RoomForTool(c.Param("toolId")))
}

func (h *eventsHandler) stream(c *gin.Context, room string) {
	sub := h.hub.Subscribe(room)
	defer sub.Close()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent(event.Type, event)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
