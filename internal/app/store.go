// Package app composes the filament data layer: the Store owning per-file
// metadata, the bounded record cache, and the search index, plus zip
// interchange of the profile directory.
package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/corey/spool/internal/domain/index"
	"github.com/corey/spool/internal/domain/profile"
	"github.com/corey/spool/internal/ports"
)

// Store owns the in-memory metadata for every profile file in one
// directory, a FIFO-bounded cache of fully parsed records, and the search
// index. All operations are serialized under one mutex so the store can be
// driven from a background worker without blocking an interactive frontend
// thread mid-scan. Blocking I/O happens synchronously inside the lock.
type Store struct {
	mu     sync.Mutex
	dir    string
	logger *slog.Logger

	meta  map[string]*ports.ProfileMeta
	cache *recordCache
	index *index.Index
}

// NewStore creates a Store over the given profile directory. cacheSize <= 0
// selects DefaultCacheSize. The store is empty until Initialize runs.
func NewStore(dir string, cacheSize int, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		dir:    dir,
		logger: logger,
		meta:   make(map[string]*ports.ProfileMeta),
		cache:  newRecordCache(cacheSize),
		index:  index.New(),
	}
}

// Dir returns the profile directory the store was built over.
func (s *Store) Dir() string {
	return s.dir
}

// Initialize scans the profile directory and loads metadata for every
// profile file, rebuilding the search index. A missing directory is created
// and reported as zero loaded, zero corrupted — not an error. One bad file
// never aborts the scan: it is counted as corrupted and skipped.
func (s *Store) Initialize() (loaded, corrupted int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, statErr := os.Stat(s.dir); os.IsNotExist(statErr) {
		if mkErr := os.MkdirAll(s.dir, 0o755); mkErr != nil {
			return 0, 0, mkErr
		}
		s.logger.Warn("profile directory created, no profiles loaded", "dir", s.dir)
		return 0, 0, nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, 0, err
	}

	s.meta = make(map[string]*ports.ProfileMeta)
	s.index = index.New()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !profile.IsProfileFile(name) {
			continue
		}
		meta := profile.ParseMetadata(filepath.Join(s.dir, name), name)
		if meta == nil {
			corrupted++
			s.logger.Warn("skipping corrupted profile", "file", name)
			continue
		}
		s.meta[name] = meta
		s.index.Add(name, meta)
	}

	s.logger.Info("profile scan complete", "dir", s.dir, "loaded", len(s.meta), "corrupted", corrupted)
	return len(s.meta), corrupted, nil
}

// GetAll returns a snapshot of all profile metadata. Fast: metadata is
// pre-loaded, no I/O. The map is a copy; the caller may iterate it without
// holding any lock.
func (s *Store) GetAll() map[string]*ports.ProfileMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() map[string]*ports.ProfileMeta {
	out := make(map[string]*ports.ProfileMeta, len(s.meta))
	for k, v := range s.meta {
		out[k] = v
	}
	return out
}

// GetMeta returns the metadata for one filename, or nil if unknown.
func (s *Store) GetMeta(filename string) *ports.ProfileMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta[filename]
}

// Get returns the full record for filename: from cache when resident,
// otherwise parsed on demand and cached (FIFO eviction past capacity).
// Returns nil both for an unknown filename and for a record whose file can
// no longer be parsed — callers treat nil as "unavailable".
func (s *Store) Get(filename string) *ports.ProfileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.cache.get(filename); ok {
		return rec
	}
	meta, ok := s.meta[filename]
	if !ok {
		return nil
	}

	rec, err := profile.ParseRecordFile(meta.Path, filename)
	if err != nil {
		s.logger.Error("failed to load profile", "file", filename, "error", err)
		return nil
	}
	rec.LastModified = meta.LastModified
	s.cache.put(filename, rec)
	return rec
}

// Search returns the metadata of profiles matching query (AND over all
// query tokens). An empty or whitespace query returns the full snapshot.
// Index hits are filtered against live metadata, so stale postings for
// deleted files never surface.
func (s *Store) Search(query string) map[string]*ports.ProfileMeta {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(query) == "" {
		return s.snapshotLocked()
	}

	hits := s.index.Search(query)
	out := make(map[string]*ports.ProfileMeta, len(hits))
	for f := range hits {
		if m, ok := s.meta[f]; ok {
			out[f] = m
		}
	}
	return out
}

// Save writes rec to disk under a name resolved from originalFilename (see
// profile.DeriveFilename), then updates metadata and the index in place.
// When overwriting, the stale cache entry is dropped first so a later Get
// re-parses fresh content. Write failures propagate; the on-disk state is
// then unknown and callers should re-query. Returns the resolved filename.
func (s *Store) Save(rec *ports.ProfileRecord, originalFilename string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Diameter <= 0 {
		rec.Diameter = ports.DefaultDiameter
	}

	filename := profile.DeriveFilename(s.dir, rec.Brand, rec.Material, rec.Color, originalFilename)
	path := filepath.Join(s.dir, filename)

	now := time.Now()
	if err := profile.WriteRecord(path, rec, now); err != nil {
		return "", err
	}

	mod := now.Unix()
	if info, err := os.Stat(path); err == nil {
		mod = info.ModTime().Unix()
	}

	meta := &ports.ProfileMeta{
		Filename:     filename,
		Path:         path,
		Brand:        rec.Brand,
		Material:     rec.Material,
		Color:        rec.Color,
		Diameter:     rec.Diameter,
		LastModified: mod,
	}
	s.meta[filename] = meta
	s.index.Add(filename, meta)
	s.cache.drop(filename)

	rec.Filename = filename
	rec.Path = path
	rec.LastModified = mod

	s.logger.Info("saved profile", "file", filename)
	return filename, nil
}

// Delete removes the on-disk file and purges filename from metadata and the
// cache. Index postings are left behind; Search filters them out. Deleting
// a nonexistent or unremovable profile returns false, never panics.
func (s *Store) Delete(filename string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, filename)
	if _, err := os.Stat(path); err != nil {
		s.logger.Warn("attempted to delete nonexistent profile", "file", filename)
		return false
	}
	if err := os.Remove(path); err != nil {
		s.logger.Error("failed to delete profile", "file", filename, "error", err)
		return false
	}

	delete(s.meta, filename)
	s.cache.drop(filename)
	s.logger.Info("deleted profile", "file", filename)
	return true
}

// CachedRecords returns the number of records currently resident in the
// full-record cache.
func (s *Store) CachedRecords() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.len()
}
