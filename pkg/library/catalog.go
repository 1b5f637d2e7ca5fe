package library

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CatalogEntry is the persisted metadata for one known track. No
// decoded audio is ever stored here, only enough to resolve and label
// a source for a future import.
type CatalogEntry struct {
	ID           string    `json:"id"`
	ArtistHint   string    `json:"artist_hint"`
	TitleHint    string    `json:"title_hint"`
	SourceURI    string    `json:"source_uri"`
	ImporterPath string    `json:"importer_path"`
	AddedAt      time.Time `json:"added_at"`
}

// Catalog is an index of CatalogEntry records backed by a Store.
type Catalog struct {
	store *Store
}

// NewCatalog wraps store as a track catalog.
func NewCatalog(store *Store) *Catalog {
	return &Catalog{store: store}
}

// Put stores entry, assigning it a new ID if it doesn't already have
// one.
func (c *Catalog) Put(ctx context.Context, entry CatalogEntry) (CatalogEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.AddedAt.IsZero() {
		entry.AddedAt = time.Now()
	}
	if err := c.store.put(ctx, entry); err != nil {
		return CatalogEntry{}, err
	}
	return entry, nil
}

// Get returns the entry with the given ID.
func (c *Catalog) Get(ctx context.Context, id string) (CatalogEntry, error) {
	return c.store.get(ctx, id)
}

// Delete removes the entry with the given ID. No error if it doesn't
// exist.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	return c.store.delete(ctx, id)
}

// List returns every entry in the catalog, in key order.
func (c *Catalog) List(ctx context.Context) ([]CatalogEntry, error) {
	return c.store.list(ctx)
}

// Close releases the underlying store.
func (c *Catalog) Close() error {
	return c.store.Close()
}
