// Package store defines the document-store collaborator: a collection of
// JSON documents with upsert/merge/delete writes and live full-collection
// snapshot subscriptions. Consumers treat every snapshot as wholly
// authoritative — the store never emits deltas, so there is no merge logic
// on the read side.
package store

import (
	"context"
	"errors"
	"time"
)

// Collection names used by the application.
const (
	Products = "products"
	Sales    = "sales"
	Invoices = "invoices"
)

// ErrNotFound is returned by Update when the target document is absent.
var ErrNotFound = errors.New("store: document not found")

// Document is one record of a collection: an opaque id plus its fields as
// decoded JSON. Field values are the usual encoding/json types (string,
// float64, bool, []any, map[string]any).
type Document struct {
	ID     string
	Fields map[string]any
}

// Snapshot is the full contents of a collection at one point in time.
type Snapshot []Document

// Store is the persistence contract. Every write that commits triggers a
// fresh snapshot broadcast to all subscribers of that collection.
type Store interface {
	// Read returns the current snapshot of a collection.
	Read(ctx context.Context, collection string) (Snapshot, error)

	// Subscribe returns a channel receiving the current snapshot immediately
	// and a new one after every committed write to the collection. Delivery
	// is latest-wins: a slow consumer observes only the newest snapshot,
	// never a backlog of stale ones. The returned cancel func releases the
	// subscription and closes the channel.
	Subscribe(ctx context.Context, collection string) (<-chan Snapshot, func(), error)

	// CreateOrReplace upserts a document by id.
	CreateOrReplace(ctx context.Context, collection, id string, fields map[string]any) error

	// Update merge-updates top-level fields of an existing document.
	// Returns ErrNotFound when the id is absent.
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Delete removes a document. Deleting an absent id is a no-op.
	Delete(ctx context.Context, collection, id string) error
}

// serverTimestamp is the sentinel placed in a field map by ServerTimestamp.
type serverTimestamp struct{}

// ServerTimestamp returns an opaque marker that the store resolves to the
// commit time of the write that carries it.
func ServerTimestamp() any { return serverTimestamp{} }

// resolveTimestamps replaces ServerTimestamp sentinels with the commit time,
// encoded as RFC3339Nano (the wire format for all timestamps).
func resolveTimestamps(fields map[string]any, now time.Time) map[string]any {
	out := make(map[string]any, len(fields))
	stamp := now.UTC().Format(time.RFC3339Nano)
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = stamp
			continue
		}
		out[k] = v
	}
	return out
}
