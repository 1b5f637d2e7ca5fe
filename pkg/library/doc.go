// Package library resolves a human-meaningful track request to the
// importer_path/source_path pair a deck's Import needs, without the
// core itself knowing anything about catalogs, crates, or remote
// sources.
//
// It ships three pieces:
//
//   - Catalog: a badger-backed index of CatalogEntry metadata, with
//     jq-style filtering via Find.
//   - Crate: an ordered, hand-editable playlist of catalog entry IDs,
//     tolerant of minor JSON mistakes.
//   - ResolveSource: turns a catalog entry's source URI into a local
//     path an importer subprocess can read, fetching from S3 first if
//     needed.
//
// None of this is decoded audio; it is metadata and file-location
// bookkeeping, entirely outside the core's "no persistence of decoded
// audio" non-goal.
package library

import "errors"

// ErrCrateUnreadable is returned by LoadCrate when a crate file cannot
// be parsed even after a repair attempt.
var ErrCrateUnreadable = errors.New("library: crate unreadable")

// ErrSourceUnreachable is returned by ResolveSource when a remote
// source cannot be fetched.
var ErrSourceUnreachable = errors.New("library: source unreachable")
