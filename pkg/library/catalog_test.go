package library_test

import (
	"context"
	"testing"

	"github.com/vinyldeck/vinyldeck/pkg/library"
)

func newCatalog(t *testing.T) *library.Catalog {
	t.Helper()
	store, err := library.OpenStore(library.StoreOptions{InMemory: true})
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return library.NewCatalog(store)
}

func TestCatalogPutGetDelete(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t)

	stored, err := cat.Put(ctx, library.CatalogEntry{
		ArtistHint:   "Daft Punk",
		TitleHint:    "One More Time",
		SourceURI:    "local:/music/omt.flac",
		ImporterPath: "/usr/bin/flac-importer",
	})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if stored.ID == "" {
		t.Fatal("Put did not assign an ID")
	}

	got, err := cat.Get(ctx, stored.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ArtistHint != "Daft Punk" || got.TitleHint != "One More Time" {
		t.Errorf("Get returned %+v", got)
	}

	if err := cat.Delete(ctx, stored.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := cat.Get(ctx, stored.ID); err == nil {
		t.Error("expected error getting deleted entry")
	}
}

func TestCatalogList(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t)

	for _, title := range []string{"A", "B", "C"} {
		if _, err := cat.Put(ctx, library.CatalogEntry{TitleHint: title}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	entries, err := cat.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("List returned %d entries, want 3", len(entries))
	}
}

func TestCatalogFind(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t)

	if _, err := cat.Put(ctx, library.CatalogEntry{ArtistHint: "Daft Punk", TitleHint: "One More Time"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := cat.Put(ctx, library.CatalogEntry{ArtistHint: "Justice", TitleHint: "Genesis"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	matches, err := cat.Find(ctx, `.ArtistHint == "Daft Punk"`)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(matches) != 1 || matches[0].TitleHint != "One More Time" {
		t.Fatalf("Find returned %+v", matches)
	}

	if _, err := cat.Find(ctx, ".["); err == nil {
		t.Error("expected error for invalid jq expression")
	}
}
