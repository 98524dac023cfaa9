package cart

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"stockpos/internal/ledger"
)

const (
	sessionTTL = 2 * time.Hour
	purgeEvery = 5 * time.Minute
)

type sessionEntry struct {
	cart     *Cart
	lastSeen time.Time
}

// Sessions maps session ids to live carts. Carts are created lazily on first
// use and evicted after sitting idle past the TTL.
type Sessions struct {
	mu     sync.Mutex
	ledger *ledger.Ledger
	carts  map[string]*sessionEntry
}

func NewSessions(l *ledger.Ledger) *Sessions {
	return &Sessions{ledger: l, carts: make(map[string]*sessionEntry)}
}

// Get returns the cart for a session, creating it if absent.
func (s *Sessions) Get(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.carts[sessionID]
	if !ok {
		entry = &sessionEntry{cart: New(s.ledger)}
		s.carts[sessionID] = entry
	}
	entry.lastSeen = time.Now()
	return entry.cart
}

// Drop discards a session's cart (checkout completion or cancellation).
func (s *Sessions) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

// StartPurge launches the background eviction loop. Respects the context for
// graceful shutdown.
func (s *Sessions) StartPurge(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(purgeEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.purge()
			}
		}
	}()
}

func (s *Sessions) purge() {
	cutoff := time.Now().Add(-sessionTTL)

	s.mu.Lock()
	purged := 0
	for id, entry := range s.carts {
		if entry.lastSeen.Before(cutoff) {
			delete(s.carts, id)
			purged++
		}
	}
	remaining := len(s.carts)
	s.mu.Unlock()

	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", remaining).
			Msg("cart sessions purged")
	}
}
