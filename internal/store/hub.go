package store

import "sync"

// hub fans collection snapshots out to subscribers. Shared by the GORM and
// in-memory store implementations.
//
// Each subscriber owns a buffered channel of capacity 1. publish drains any
// undelivered snapshot before sending, so consumers always observe the most
// recent state and a stalled consumer never blocks a write.
type hub struct {
	mu   sync.Mutex
	subs map[string]map[int]chan Snapshot
	next int
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[int]chan Snapshot)}
}

// subscribe registers a new consumer for collection and returns its channel
// plus a cancel func. The caller is responsible for delivering the initial
// snapshot.
func (h *hub) subscribe(collection string) (chan Snapshot, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[collection] == nil {
		h.subs[collection] = make(map[int]chan Snapshot)
	}
	key := h.next
	h.next++
	ch := make(chan Snapshot, 1)
	h.subs[collection][key] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := h.subs[collection][key]; ok {
			delete(h.subs[collection], key)
			close(c)
		}
	}
	return ch, cancel
}

// publish delivers snap to every subscriber of collection, latest-wins.
func (h *hub) publish(collection string, snap Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[collection] {
		select {
		case ch <- snap:
		default:
			// Stale snapshot still queued — replace it.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}
