// Package broadcast fans out change events to live subscribers. Delivery is
// best-effort: publishing never blocks the request path, and subscribers that
// fall behind lose events instead of backpressuring writers.
package broadcast

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// GlobalRoom receives site-wide events such as new tool submissions.
const GlobalRoom = "global"

// RoomForTool returns the room key carrying events for a single tool.
func RoomForTool(toolID string) string {
	return "tool_" + toolID
}

// Event types published by the core services.
const (
	EventNewTool        = "new_tool"
	EventToolUpdated    = "tool_updated"
	EventNewOpinion     = "new_opinion"
	EventOpinionUpdated = "opinion_updated"
	EventVoteUpdated    = "vote_updated"
	EventRatingUpdated  = "rating_updated"
)

// Event is a single change notification.
type Event struct {
	Type    string      `json:"type"`
	Room    string      `json:"room"`
	Payload interface{} `json:"payload"`
	At      time.Time   `json:"at"`
}

// Subscriber receives events for one room on C until Close is called.
type Subscriber struct {
	C    chan Event
	room string
	hub  *Hub
	once sync.Once
}

// Close detaches the subscriber from its room and closes C.
func (s *Subscriber) Close() {
	s.once.Do(func() {
		s.hub.unsubscribe(s)
		close(s.C)
	})
}

// Hub routes events to room subscribers.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Subscriber]struct{}
	buffer int
	logger *zap.Logger
}

// NewHub creates a hub whose subscribers buffer up to buffer events each.
func NewHub(buffer int, logger *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		rooms:  make(map[string]map[*Subscriber]struct{}),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe registers a new subscriber for room.
func (h *Hub) Subscribe(room string) *Subscriber {
	sub := &Subscriber{C: make(chan Event, h.buffer), room: room, hub: h}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Subscriber]struct{})
	}
	h.rooms[room][sub] = struct{}{}
	return sub
}

func (h *Hub) unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.rooms[sub.room]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.rooms, sub.room)
		}
	}
}

// Publish delivers an event to every subscriber of room. Subscribers with a
// full buffer are skipped; the HTTP response never waits on fan-out.
func (h *Hub) Publish(room, eventType string, payload interface{}) {
	event := Event{Type: eventType, Room: room, Payload: payload, At: time.Now()}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.rooms[room] {
		select {
		case sub.C <- event:
		default:
			h.logger.Debug("Dropping event for slow subscriber",
				zap.String("room", room), zap.String("type", eventType))
		}
	}
}

// RoomSize reports the current number of subscribers in room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
