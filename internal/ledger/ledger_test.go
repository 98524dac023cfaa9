package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpos/internal/model"
	"stockpos/internal/store"
)

func productDoc(id, name string, quantity int) store.Document {
	return store.Document{ID: id, Fields: map[string]any{
		"name":     name,
		"category": "Cables",
		"quantity": float64(quantity),
		"price":    "19.99",
		"minStock": float64(2),
	}}
}

func TestApplyReplacesState(t *testing.T) {
	l := New()

	l.Apply(store.Snapshot{productDoc("PROD-1", "USB Cable", 5), productDoc("PROD-2", "HDMI Cable", 3)})
	assert.Equal(t, 2, l.Len())

	// Next snapshot no longer contains PROD-2: it must vanish, not linger.
	l.Apply(store.Snapshot{productDoc("PROD-1", "USB Cable", 4)})
	assert.Equal(t, 1, l.Len())
	_, ok := l.Get("PROD-2")
	assert.False(t, ok)

	p, ok := l.Get("PROD-1")
	require.True(t, ok)
	assert.Equal(t, 4, p.Quantity)
}

func TestApplyIsIdempotent(t *testing.T) {
	l := New()
	snap := store.Snapshot{productDoc("PROD-1", "USB Cable", 5)}

	l.Apply(snap)
	l.Apply(snap)

	assert.Equal(t, 1, l.Len())
	p, _ := l.Get("PROD-1")
	assert.Equal(t, 5, p.Quantity)
}

func TestApplySkipsMalformedDocuments(t *testing.T) {
	l := New()
	bad := store.Document{ID: "PROD-2", Fields: map[string]any{"name": "No price"}}

	l.Apply(store.Snapshot{productDoc("PROD-1", "USB Cable", 5), bad})

	assert.Equal(t, 1, l.Len())
	_, ok := l.Get("PROD-2")
	assert.False(t, ok)
}

func TestWatchersObserveEveryApply(t *testing.T) {
	l := New()
	var seen []int
	l.Watch(func(products map[string]model.Product) {
		seen = append(seen, len(products))
	})

	l.Apply(store.Snapshot{productDoc("PROD-1", "USB Cable", 5)})
	l.Apply(store.Snapshot{})

	assert.Equal(t, []int{1, 0}, seen)
}

func TestCurrentReturnsCopy(t *testing.T) {
	l := New()
	l.Apply(store.Snapshot{productDoc("PROD-1", "USB Cable", 5)})

	m := l.Current()
	delete(m, "PROD-1")

	assert.Equal(t, 1, l.Len())
}

func TestRunFollowsSubscription(t *testing.T) {
	st := store.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, st.CreateOrReplace(ctx, store.Products, "PROD-1", map[string]any{
		"name": "USB Cable", "category": "Cables", "quantity": 5, "price": "19.99", "minStock": 2,
	}))

	l := New()
	done := make(chan struct{})
	go func() {
		_ = l.Run(ctx, st)
		close(done)
	}()

	require.Eventually(t, func() bool { return l.Len() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, st.Update(ctx, store.Products, "PROD-1", map[string]any{"quantity": 2}))
	require.Eventually(t, func() bool {
		p, ok := l.Get("PROD-1")
		return ok && p.Quantity == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancel")
	}
}
