package ports

import "go.trai.ch/snaplink/internal/core/domain"

// TransformCache is the persistent store of module transforms.
// It is owned by a single generation or watch session at a time.
//
//go:generate mockgen -source=transform_cache.go -destination=mocks/mock_transform_cache.go -package=mocks
type TransformCache interface {
	// Get returns the entry for path. When content is not nil the entry is
	// returned only if its key matches the hash of content. A returned entry is
	// marked touched.
	Get(path string, content []byte) (*domain.CacheEntry, bool)
	// Put stores the transform of path keyed by the hash of original and marks it touched.
	Put(path string, original []byte, source string, requires []domain.RequireRef, sourceMap *domain.SourceMap)
	// DeleteUnusedEntries removes every entry not touched since the last call.
	DeleteUnusedEntries()
	// Flush persists the entry set to the backing store in one transaction.
	Flush() error
	// Close releases the backing store without persisting pending changes.
	Close() error
	// Dispose flushes and closes.
	Dispose() error
}

// TransformCacheFactory opens transform caches.
type TransformCacheFactory interface {
	// Open opens or creates the store at path. When the stored invalidation key
	// differs from invalidationKey every entry is discarded and the new key persisted.
	Open(path, invalidationKey string) (TransformCache, error)
}
