// Package cache implements the persistent transform cache on a bbolt file.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.etcd.io/bbolt"
	"go.trai.ch/snaplink/internal/core/domain"
	"go.trai.ch/snaplink/internal/core/ports"
	"go.trai.ch/zerr"
)

const openTimeout = time.Second

var (
	bucketName      = []byte("snaplink")
	invalidationRow = []byte("invalidation-key")
	transformRow    = []byte("transform-cache")
)

var (
	_ ports.TransformCache        = (*Store)(nil)
	_ ports.TransformCacheFactory = (*Factory)(nil)
)

// Factory opens transform cache stores.
type Factory struct {
	hasher ports.Hasher
}

// NewFactory creates a new Factory that keys entries with hasher.
func NewFactory(hasher ports.Hasher) *Factory {
	return &Factory{hasher: hasher}
}

// Open implements ports.TransformCacheFactory.
func (f *Factory) Open(path, invalidationKey string) (ports.TransformCache, error) {
	return Open(path, invalidationKey, f.hasher)
}

// Store is a transform cache held in memory and persisted as two rows of a
// bbolt bucket: the invalidation key and the serialized entry set.
type Store struct {
	mu      sync.Mutex
	db      *bbolt.DB
	hasher  ports.Hasher
	entries map[string]domain.CacheEntry
	touched map[string]struct{}
}

// Open opens or creates the store at path and loads its entries. When the
// persisted invalidation key differs from invalidationKey the entry set is
// cleared and the new key written.
func Open(path, invalidationKey string, hasher ports.Hasher) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheOpen.Error()), "path", path)
	}

	db, err := bbolt.Open(path, domain.PrivateFilePerm, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheOpen.Error()), "path", path)
	}

	s := &Store{
		db:      db,
		hasher:  hasher,
		entries: make(map[string]domain.CacheEntry),
		touched: make(map[string]struct{}),
	}

	if err := s.load(invalidationKey); err != nil {
		_ = db.Close()
		return nil, zerr.With(err, "path", path)
	}

	return s, nil
}

func (s *Store) load(invalidationKey string) error {
	var stale bool
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}

		if string(b.Get(invalidationRow)) != invalidationKey {
			stale = true
			if err := b.Put(invalidationRow, []byte(invalidationKey)); err != nil {
				return err
			}
			return b.Delete(transformRow)
		}

		data := b.Get(transformRow)
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &s.entries); err != nil {
			return zerr.Wrap(err, domain.ErrCacheDecode.Error())
		}
		return nil
	})
	if err != nil {
		if stale {
			return zerr.Wrap(err, domain.ErrCacheWrite.Error())
		}
		return zerr.Wrap(err, domain.ErrCacheRead.Error())
	}
	return nil
}

// Get returns the entry for path. When content is not nil the entry is only
// returned if its key matches the hash of content.
func (s *Store) Get(path string, content []byte) (*domain.CacheEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[path]
	if !ok {
		return nil, false
	}
	if content != nil && entry.Key != s.hasher.Hash(content) {
		return nil, false
	}

	s.touched[path] = struct{}{}
	return &entry, true
}

// Put stores the transform of path and marks it touched.
func (s *Store) Put(
	path string,
	original []byte,
	source string,
	requires []domain.RequireRef,
	sourceMap *domain.SourceMap,
) {
	if requires == nil {
		requires = []domain.RequireRef{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[path] = domain.CacheEntry{
		Source:   source,
		Map:      sourceMap,
		Requires: requires,
		Key:      s.hasher.Hash(original),
	}
	s.touched[path] = struct{}{}
}

// DeleteUnusedEntries drops every entry that was neither read nor written
// since the previous call.
func (s *Store) DeleteUnusedEntries() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for path := range s.entries {
		if _, ok := s.touched[path]; !ok {
			delete(s.entries, path)
		}
	}
	clear(s.touched)
}

// Paths returns the paths of the stored entries.
func (s *Store) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, 0, len(s.entries))
	for path := range s.entries {
		paths = append(paths, path)
	}
	return paths
}

// Flush writes the entry set in a single transaction.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return domain.ErrCacheClosed
	}

	data, err := json.Marshal(s.entries)
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheWrite.Error())
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		return b.Put(transformRow, data)
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWrite.Error()), "path", s.db.Path())
	}
	return nil
}

// Close releases the file without writing pending changes.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheWrite.Error())
	}
	return nil
}

// Dispose flushes and closes the store. The file is released even when the
// flush fails.
func (s *Store) Dispose() error {
	flushErr := s.Flush()
	closeErr := s.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
