// Package notify is the toast collaborator: fire-and-forget user-visible
// notifications. The hub logs each message and keeps a bounded ring the UI
// polls; nothing here ever blocks or fails the triggering operation.
package notify

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Kind selects the toast styling.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

// Notification is one emitted toast.
type Notification struct {
	Message string    `json:"message"`
	Kind    Kind      `json:"kind"`
	At      time.Time `json:"at"`
}

// Notifier is the contract services depend on.
type Notifier interface {
	Notify(message string, kind Kind)
}

const ringSize = 50

// Hub implements Notifier with a bounded in-memory ring.
type Hub struct {
	mu   sync.Mutex
	ring []Notification
}

func NewHub() *Hub { return &Hub{} }

var _ Notifier = (*Hub)(nil)

func (h *Hub) Notify(message string, kind Kind) {
	n := Notification{Message: message, Kind: kind, At: time.Now()}

	h.mu.Lock()
	h.ring = append(h.ring, n)
	if len(h.ring) > ringSize {
		h.ring = h.ring[len(h.ring)-ringSize:]
	}
	h.mu.Unlock()

	log.Info().Str("kind", string(kind)).Str("message", message).Msg("notification")
}

// Recent returns the retained notifications, oldest first.
func (h *Hub) Recent() []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Notification(nil), h.ring...)
}
