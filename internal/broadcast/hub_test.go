package broadcast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishReachesRoomSubscribers(t *testing.T) {
	hub := NewHub(4, zap.NewNop())
	sub := hub.Subscribe(RoomForTool("t1"))
	defer sub.Close()

	hub.Publish(RoomForTool("t1"), EventNewOpinion, map[string]string{"opinion_id": "o1"})

	select {
	case event := <-sub.C:
		assert.Equal(t, EventNewOpinion, event.Type)
		assert.Equal(t, "tool_t1", event.Room)
	case <-time.After(time.Second):
		t.Fatal("expected event was not delivered")
	}
}

func TestPublishIsolatesRooms(t *testing.T) {
	hub := NewHub(4, zap.NewNop())
	other := hub.Subscribe(RoomForTool("t2"))
	defer other.Close()

	hub.Publish(RoomForTool("t1"), EventVoteUpdated, nil)

	select {
	case <-other.C:
		t.Fatal("event leaked into an unrelated room")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	hub := NewHub(1, zap.NewNop())
	sub := hub.Subscribe(GlobalRoom)
	defer sub.Close()

	// Nobody drains sub.C; the second publish must drop, not hang.
	done := make(chan struct{})
	go func() {
		hub.Publish(GlobalRoom, EventNewTool, nil)
		hub.Publish(GlobalRoom, EventNewTool, nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber buffer")
	}
}

func TestCloseRemovesSubscriber(t *testing.T) {
	hub := NewHub(4, zap.NewNop())
	sub := hub.Subscribe(GlobalRoom)
	require.Equal(t, 1, hub.RoomSize(GlobalRoom))

	sub.Close()
	assert.Equal(t, 0, hub.RoomSize(GlobalRoom))

	// Double close must be safe.
	sub.Close()
}
