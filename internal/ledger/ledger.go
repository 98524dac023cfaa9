// Package ledger maintains the in-process authoritative cache of Product
// state. It is refreshed only by the store subscription — no caller ever
// writes to it directly, so every local read within a request observes one
// consistent view and all actual stock mutation happens in the store.
package ledger

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"stockpos/internal/model"
	"stockpos/internal/store"
)

// Watcher observes the full product set after every snapshot apply.
// Watchers receive a private copy and run on the subscription goroutine.
type Watcher func(products map[string]model.Product)

// Ledger is the live projection of the products collection.
type Ledger struct {
	mu       sync.RWMutex
	products map[string]model.Product
	watchers []Watcher
}

func New() *Ledger {
	return &Ledger{products: make(map[string]model.Product)}
}

// Watch registers an observer. Must be called before Run.
func (l *Ledger) Watch(fn Watcher) {
	l.watchers = append(l.watchers, fn)
}

// Run subscribes to the products collection and applies snapshots until the
// context is cancelled. Each snapshot wholly replaces the previous state, so
// re-observing an already-applied write is a no-op.
func (l *Ledger) Run(ctx context.Context, st store.Store) error {
	snapshots, cancel, err := st.Subscribe(ctx, store.Products)
	if err != nil {
		return err
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-snapshots:
			if !ok {
				return nil
			}
			l.Apply(snap)
		}
	}
}

// Apply replaces the product map with the snapshot's contents. Documents
// that fail validation are logged and skipped — a malformed record must not
// evict the rest of the catalog.
func (l *Ledger) Apply(snap store.Snapshot) {
	next := make(map[string]model.Product, len(snap))
	for _, doc := range snap {
		p, err := model.ProductFromDocument(doc)
		if err != nil {
			log.Warn().Err(err).Str("product_id", doc.ID).
				Msg("ledger: rejecting malformed product document")
			continue
		}
		next[p.ID] = p
	}

	l.mu.Lock()
	l.products = next
	l.mu.Unlock()

	for _, fn := range l.watchers {
		fn(copyProducts(next))
	}
}

// Current returns a copy of the latest known product set.
func (l *Ledger) Current() map[string]model.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return copyProducts(l.products)
}

// Get returns the latest known state of one product.
func (l *Ledger) Get(id string) (model.Product, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.products[id]
	return p, ok
}

// Len reports the number of known products.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.products)
}

func copyProducts(m map[string]model.Product) map[string]model.Product {
	out := make(map[string]model.Product, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
