package orchestrator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversToThreadSubscribers(t *testing.T) {
	h := NewHub()
	ch, unsubscribe := h.Subscribe("t-1")
	defer unsubscribe()

	h.Publish("t-1", Event{Event: "run_status", ThreadID: "t-1"})
	h.Publish("t-2", Event{Event: "run_status", ThreadID: "t-2"})

	select {
	case b := <-ch:
		var ev Event
		require.NoError(t, json.Unmarshal(b, &ev))
		assert.Equal(t, "t-1", ev.ThreadID)
	default:
		t.Fatal("expected a buffered event")
	}

	select {
	case b := <-ch:
		t.Fatalf("unexpected cross-thread event: %s", b)
	default:
	}
}

func TestHubDropsWhenSubscriberFull(t *testing.T) {
	h := NewHub()
	ch, unsubscribe := h.Subscribe("t-1")
	defer unsubscribe()

	// More events than the subscriber buffer holds; Publish must not block.
	for i := 0; i < 100; i++ {
		h.Publish("t-1", Event{Event: "task_status", ThreadID: "t-1"})
	}

	drained := 0
	for {
		select {
		case <-ch:
			drained++
			continue
		default:
		}
		break
	}
	assert.Greater(t, drained, 0)
	assert.Less(t, drained, 100)
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	ch, unsubscribe := h.Subscribe("t-1")
	unsubscribe()

	_, open := <-ch
	assert.False(t, open)

	// Publishing after unsubscribe must be a no-op, not a panic.
	h.Publish("t-1", Event{Event: "run_status", ThreadID: "t-1"})
}

func TestNilHubPublishIsSafe(t *testing.T) {
	var h *Hub
	h.Publish("t-1", Event{Event: "run_status"})
}
