package orchestrator

import (
	"encoding/json"
	"sync"
)

// Event is a generic SSE payload wrapper for run progress.
type Event struct {
	Event    string `json:"event"`
	ThreadID string `json:"thread_id"`
	Payload  any    `json:"payload,omitempty"`
}

type subscriber chan []byte

// Hub fans run events out to per-thread subscribers. Sends are non-blocking;
// a slow subscriber drops events rather than stalling the run.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[subscriber]struct{}
}

func NewHub() *Hub { return &Hub{subs: map[string]map[subscriber]struct{}{}} }

func (h *Hub) Subscribe(threadID string) (<-chan []byte, func()) {
	ch := make(subscriber, 16)
	h.mu.Lock()
	set := h.subs[threadID]
	if set == nil {
		set = map[subscriber]struct{}{}
		h.subs[threadID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()
	unsubscribe := func() {
		h.mu.Lock()
		if set, ok := h.subs[threadID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, threadID)
			}
		}
		close(ch)
		h.mu.Unlock()
	}
	return ch, unsubscribe
}

func (h *Hub) Publish(threadID string, ev Event) {
	if h == nil {
		return
	}
	b, _ := json.Marshal(ev)
	h.mu.RLock()
	for ch := range h.subs[threadID] {
		select {
		case ch <- b:
		default:
		}
	}
	h.mu.RUnlock()
}
