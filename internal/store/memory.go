package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store entirely in memory with the same snapshot
// semantics as the GORM implementation. It backs unit tests and local
// development without postgres.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]map[string]any // collection → id → fields
	hub  *hub
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]map[string]any),
		hub:  newHub(),
		now:  time.Now,
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Read(_ context.Context, collection string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(collection), nil
}

func (s *MemoryStore) Subscribe(_ context.Context, collection string) (<-chan Snapshot, func(), error) {
	ch, cancel := s.hub.subscribe(collection)

	s.mu.RLock()
	initial := s.snapshotLocked(collection)
	s.mu.RUnlock()
	ch <- initial

	return ch, cancel, nil
}

func (s *MemoryStore) CreateOrReplace(_ context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	if s.data[collection] == nil {
		s.data[collection] = make(map[string]map[string]any)
	}
	s.data[collection][id] = resolveTimestamps(fields, s.now())
	snap := s.snapshotLocked(collection)
	s.mu.Unlock()

	s.hub.publish(collection, snap)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	existing, ok := s.data[collection][id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	for k, v := range resolveTimestamps(fields, s.now()) {
		existing[k] = v
	}
	snap := s.snapshotLocked(collection)
	s.mu.Unlock()

	s.hub.publish(collection, snap)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	if _, ok := s.data[collection][id]; !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.data[collection], id)
	snap := s.snapshotLocked(collection)
	s.mu.Unlock()

	s.hub.publish(collection, snap)
	return nil
}

// snapshotLocked deep-copies the collection so consumers can never mutate
// store state through a delivered snapshot. Caller must hold at least a
// read lock.
func (s *MemoryStore) snapshotLocked(collection string) Snapshot {
	docs := s.data[collection]
	snap := make(Snapshot, 0, len(docs))
	for id, fields := range docs {
		cp := make(map[string]any, len(fields))
		for k, v := range fields {
			cp[k] = v
		}
		snap = append(snap, Document{ID: id, Fields: cp})
	}
	return snap
}
