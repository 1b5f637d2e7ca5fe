package library

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vinyldeck/vinyldeck/pkg/storage"
)

// ResolveSource turns a catalog entry's source URI into a local path an
// importer subprocess can read. "local:" URIs and bare paths resolve to
// themselves; "s3://bucket/key" URIs are downloaded through client into
// a [storage.Local] cache rooted at os.UserCacheDir()/vinyldeck/sources,
// keyed by a hash of the URI, and the cached path is reused across calls
// rather than re-downloaded every import.
//
// cleanup is always safe to call and is a no-op for both the local and
// cached-S3 cases; it exists so callers that later want a
// non-persistent cache (e.g. a size-bounded LRU eviction) can add one
// without changing ResolveSource's signature.
func ResolveSource(ctx context.Context, client storage.S3Client, uri string) (localPath string, cleanup func(), err error) {
	noop := func() {}

	if path, ok := strings.CutPrefix(uri, "local:"); ok {
		return path, noop, nil
	}

	bucket, key, ok := strings.Cut(strings.TrimPrefix(uri, "s3://"), "/")
	if !strings.HasPrefix(uri, "s3://") || !ok {
		// Not a recognized scheme: treat as a bare local path.
		return uri, noop, nil
	}

	cacheDir, err := sourceCacheDir()
	if err != nil {
		return "", noop, fmt.Errorf("%w: %v", ErrSourceUnreachable, err)
	}
	cache, err := storage.NewLocal(cacheDir)
	if err != nil {
		return "", noop, fmt.Errorf("%w: %v", ErrSourceUnreachable, err)
	}

	name := cacheFileName(uri)
	cachedPath := filepath.Join(cacheDir, name)
	if exists, err := cache.Exists(ctx, name); err == nil && exists {
		return cachedPath, noop, nil
	}

	store := storage.NewS3(client, bucket, "")
	rc, err := store.Read(ctx, key)
	if err != nil {
		return "", noop, fmt.Errorf("%w: %s: %v", ErrSourceUnreachable, uri, err)
	}
	defer rc.Close()

	w, err := cache.Write(ctx, name)
	if err != nil {
		return "", noop, fmt.Errorf("%w: %v", ErrSourceUnreachable, err)
	}
	if _, err := io.Copy(w, rc); err != nil {
		w.Close()
		cache.Delete(ctx, name)
		return "", noop, fmt.Errorf("%w: %s: %v", ErrSourceUnreachable, uri, err)
	}
	if err := w.Close(); err != nil {
		cache.Delete(ctx, name)
		return "", noop, fmt.Errorf("%w: %v", ErrSourceUnreachable, err)
	}

	return cachedPath, noop, nil
}

func sourceCacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "vinyldeck", "sources")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func cacheFileName(uri string) string {
	sum := sha256.Sum256([]byte(uri))
	return hex.EncodeToString(sum[:])
}
