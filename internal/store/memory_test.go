package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateAndRead(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateOrReplace(ctx, Products, "PROD-1", map[string]any{"name": "USB Cable"}))

	snap, err := s.Read(ctx, Products)
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.Equal(t, "PROD-1", snap[0].ID)
	assert.Equal(t, "USB Cable", snap[0].Fields["name"])
}

func TestMemoryStoreUpdateMerges(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateOrReplace(ctx, Products, "PROD-1", map[string]any{"name": "USB Cable", "quantity": 5}))
	require.NoError(t, s.Update(ctx, Products, "PROD-1", map[string]any{"quantity": 3}))

	snap, err := s.Read(ctx, Products)
	require.NoError(t, err)
	require.Len(t, snap, 1)
	// merge: untouched fields survive
	assert.Equal(t, "USB Cable", snap[0].Fields["name"])
	assert.Equal(t, 3, snap[0].Fields["quantity"])
}

func TestMemoryStoreUpdateMissing(t *testing.T) {
	s := NewMemoryStore()
	err := s.Update(context.Background(), Products, "nope", map[string]any{"quantity": 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDeleteAbsentIsNoop(t *testing.T) {
	s := NewMemoryStore()
	assert.NoError(t, s.Delete(context.Background(), Products, "nope"))
}

func TestMemoryStoreServerTimestamp(t *testing.T) {
	s := NewMemoryStore()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	ctx := context.Background()
	require.NoError(t, s.CreateOrReplace(ctx, Products, "PROD-1", map[string]any{
		"name":      "USB Cable",
		"createdAt": ServerTimestamp(),
	}))

	snap, err := s.Read(ctx, Products)
	require.NoError(t, err)
	assert.Equal(t, fixed.Format(time.RFC3339Nano), snap[0].Fields["createdAt"])
}

func TestSubscribeDeliversInitialAndSubsequent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.CreateOrReplace(ctx, Products, "PROD-1", map[string]any{"name": "USB Cable"}))

	ch, cancel, err := s.Subscribe(ctx, Products)
	require.NoError(t, err)
	defer cancel()

	initial := <-ch
	require.Len(t, initial, 1)

	require.NoError(t, s.CreateOrReplace(ctx, Products, "PROD-2", map[string]any{"name": "HDMI Cable"}))

	select {
	case next := <-ch:
		assert.Len(t, next, 2)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered after write")
	}
}

func TestSubscribeLatestWins(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ch, cancel, err := s.Subscribe(ctx, Products)
	require.NoError(t, err)
	defer cancel()

	// Consumer never reads between these writes: only the newest snapshot
	// must be waiting in the buffer.
	require.NoError(t, s.CreateOrReplace(ctx, Products, "PROD-1", map[string]any{"name": "A"}))
	require.NoError(t, s.CreateOrReplace(ctx, Products, "PROD-2", map[string]any{"name": "B"}))
	require.NoError(t, s.CreateOrReplace(ctx, Products, "PROD-3", map[string]any{"name": "C"}))

	snap := <-ch
	assert.Len(t, snap, 3)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.CreateOrReplace(ctx, Products, "PROD-1", map[string]any{"name": "USB Cable"}))

	snap, err := s.Read(ctx, Products)
	require.NoError(t, err)
	snap[0].Fields["name"] = "mutated"

	again, err := s.Read(ctx, Products)
	require.NoError(t, err)
	assert.Equal(t, "USB Cable", again[0].Fields["name"])
}
