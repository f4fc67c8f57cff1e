package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"autoblog/internal/core"
)

var (
	// ErrCorrupt is returned by Load alongside an empty record list when the
	// persisted index exists but cannot be parsed. Callers may proceed with
	// the empty index but should log the condition rather than hide it,
	// since duplicate slugs can reappear once history is lost.
	ErrCorrupt = errors.New("index file is corrupt")

	// ErrLocked is returned when another run holds the index lock.
	ErrLocked = errors.New("index is locked by another run")
)

// staleLockAge is how old a lock file must be before it is considered
// abandoned by a crashed run and taken over.
const staleLockAge = 10 * time.Minute

// Registry persists the append-only list of published post records and
// answers slug-uniqueness queries for the enricher.
type Registry struct {
	path string
}

// NewRegistry creates a registry backed by the JSON file at path.
func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

// Path returns the backing file path.
func (r *Registry) Path() string { return r.path }

// Load reads the full record list. A missing file yields an empty list and
// no error. An unreadable or unparseable file yields an empty list and
// ErrCorrupt so the caller can surface a warning while the run proceeds.
func (r *Registry) Load() ([]core.PostRecord, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []core.PostRecord{}, nil
		}
		return []core.PostRecord{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var records []core.PostRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return []core.PostRecord{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if records == nil {
		records = []core.PostRecord{}
	}
	return records, nil
}

// Save persists the full record list, creating the containing directory if
// needed. The write goes through a temp file and rename so a crashed run
// never leaves a half-written index behind.
func (r *Registry) Save(records []core.PostRecord) error {
	dir := filepath.Dir(r.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create index directory %s: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write index temp file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace index file: %w", err)
	}
	return nil
}

// HasSlug reports whether slug already exists among records.
func HasSlug(records []core.PostRecord, slug string) bool {
	for _, rec := range records {
		if rec.Slug == slug {
			return true
		}
	}
	return false
}

// Lock acquires an advisory lock guarding the read-modify-write window of a
// run. Concurrent runs racing on the same index file would otherwise lose
// updates. A lock older than staleLockAge is assumed abandoned and replaced.
func (r *Registry) Lock() (func(), error) {
	lockPath := r.path + ".lock"

	// A first run may lock before anything was ever saved here.
	dir := filepath.Dir(r.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create index directory %s: %w", dir, err)
		}
	}

	if info, err := os.Stat(lockPath); err == nil {
		if time.Since(info.ModTime()) < staleLockAge {
			return nil, ErrLocked
		}
		_ = os.Remove(lockPath)
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("failed to create index lock: %w", err)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	_ = f.Close()

	return func() { _ = os.Remove(lockPath) }, nil
}
