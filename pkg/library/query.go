package library

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/itchyny/gojq"
)

// Find returns every catalog entry for which the jq expression expr
// evaluates truthy, e.g. `.ArtistHint == "Daft Punk"` or
// `.TitleHint | test("live"; "i")`.
func (c *Catalog) Find(ctx context.Context, expr string) ([]CatalogEntry, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("library: invalid query %q: %w", expr, err)
	}

	entries, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	var matched []CatalogEntry
	for _, entry := range entries {
		ok, err := matches(query, entry)
		if err != nil {
			return nil, fmt.Errorf("library: query %q against entry %s: %w", expr, entry.ID, err)
		}
		if ok {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

// matches runs query against entry, treating any truthy, non-error
// result as a match. A query producing no output, or only false/null
// results, is not a match.
func matches(query *gojq.Query, entry CatalogEntry) (bool, error) {
	// Queries address fields by their Go names (.ArtistHint), so the
	// entry is encoded without the snake_case tags used for storage.
	type queryEntry struct {
		ID           string
		ArtistHint   string
		TitleHint    string
		SourceURI    string
		ImporterPath string
		AddedAt      time.Time
	}
	data, err := json.Marshal(queryEntry(entry))
	if err != nil {
		return false, err
	}
	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return false, err
	}

	iter := query.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			return false, nil
		}
		if err, ok := v.(error); ok {
			return false, err
		}
		if truthy(v) {
			return true, nil
		}
	}
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return true
	}
}
