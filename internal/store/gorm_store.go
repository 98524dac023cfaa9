package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// record is the persisted shape of a document: one jsonb row per document,
// keyed by (collection, id). Timestamps inside Data are already resolved to
// strings; CreatedAt/UpdatedAt are bookkeeping only.
type record struct {
	Collection string `gorm:"primaryKey;size:64"`
	DocID      string `gorm:"primaryKey;size:64;column:doc_id"`
	Data       []byte `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (record) TableName() string { return "documents" }

// GormStore implements Store on postgres via GORM. Every committed write
// re-reads the affected collection and broadcasts the fresh snapshot, which
// keeps subscription semantics identical to the in-memory implementation.
type GormStore struct {
	db  *gorm.DB
	hub *hub
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("store: migrate documents table: %w", err)
	}
	return &GormStore{db: db, hub: newHub()}, nil
}

var _ Store = (*GormStore)(nil)

func (s *GormStore) Read(ctx context.Context, collection string) (Snapshot, error) {
	var rows []record
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	snap := make(Snapshot, 0, len(rows))
	for _, r := range rows {
		var fields map[string]any
		if err := json.Unmarshal(r.Data, &fields); err != nil {
			// A row we wrote ourselves should always decode; skip and log
			// rather than poisoning the whole snapshot.
			log.Error().Err(err).Str("collection", collection).Str("doc_id", r.DocID).
				Msg("store: undecodable document skipped")
			continue
		}
		snap = append(snap, Document{ID: r.DocID, Fields: fields})
	}
	return snap, nil
}

func (s *GormStore) Subscribe(ctx context.Context, collection string) (<-chan Snapshot, func(), error) {
	initial, err := s.Read(ctx, collection)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.hub.subscribe(collection)
	ch <- initial
	return ch, cancel, nil
}

func (s *GormStore) CreateOrReplace(ctx context.Context, collection, id string, fields map[string]any) error {
	data, err := json.Marshal(resolveTimestamps(fields, time.Now()))
	if err != nil {
		return fmt.Errorf("store: marshal document: %w", err)
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&record{Collection: collection, DocID: id, Data: data}).Error
	if err != nil {
		return err
	}

	s.broadcast(ctx, collection)
	return nil
}

func (s *GormStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row record
		err := tx.Where("collection = ? AND doc_id = ?", collection, id).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var existing map[string]any
		if err := json.Unmarshal(row.Data, &existing); err != nil {
			return fmt.Errorf("store: decode document for merge: %w", err)
		}
		for k, v := range resolveTimestamps(fields, time.Now()) {
			existing[k] = v
		}
		data, err := json.Marshal(existing)
		if err != nil {
			return fmt.Errorf("store: marshal merged document: %w", err)
		}

		return tx.Model(&record{}).
			Where("collection = ? AND doc_id = ?", collection, id).
			Update("data", data).Error
	})
	if err != nil {
		return err
	}

	s.broadcast(ctx, collection)
	return nil
}

func (s *GormStore) Delete(ctx context.Context, collection, id string) error {
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Delete(&record{}).Error
	if err != nil {
		return err
	}
	s.broadcast(ctx, collection)
	return nil
}

func (s *GormStore) broadcast(ctx context.Context, collection string) {
	snap, err := s.Read(ctx, collection)
	if err != nil {
		log.Error().Err(err).Str("collection", collection).
			Msg("store: snapshot read after write failed — subscribers keep previous state")
		return
	}
	s.hub.publish(collection, snap)
}
