package library

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kaptinlin/jsonrepair"
)

// Crate is an ordered, named subset of the catalog: a DJ's playlist,
// stored as a plain JSON array of catalog entry IDs that a DJ is
// expected to hand-edit.
type Crate struct {
	Name    string
	Entries []string
}

// LoadCrate reads the JSON crate file at path. If the file doesn't
// parse as-is, LoadCrate retries once through jsonrepair before giving
// up, since hand-edited crate files commonly carry a stray trailing
// comma or an unquoted key.
func LoadCrate(path string) (*Crate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCrateUnreadable, err)
	}

	entries, err := unmarshalEntries(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCrateUnreadable, path, err)
	}

	return &Crate{Name: crateName(path), Entries: entries}, nil
}

func unmarshalEntries(data []byte) ([]string, error) {
	var entries []string
	err := json.Unmarshal(data, &entries)
	if err == nil {
		return entries, nil
	}

	fixed, repairErr := jsonrepair.JSONRepair(string(data))
	if repairErr != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(fixed), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func crateName(path string) string {
	base := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			base = path[i+1:]
			break
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			return base[:i]
		}
	}
	return base
}

// Resolve looks up every entry ID in the crate against cat, in order,
// skipping any that no longer exist in the catalog.
func (cr *Crate) Resolve(ctx context.Context, cat *Catalog) ([]CatalogEntry, error) {
	var out []CatalogEntry
	for _, id := range cr.Entries {
		entry, err := cat.Get(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}
