// Package catalog holds the ordered list of uploaded media entries
// and mirrors it to durable storage on every mutation.
package catalog

import (
	"fmt"
	"sync"

	"media-player/internal/logging"
	"media-player/internal/metrics"
)

// Snapshot is the persistence port for the catalog. The whole catalog
// is written on every mutation; this is a full overwrite, not an
// incremental update, which is fine at single-user scale.
type Snapshot interface {
	Save(entries []Entry) error
	Load() ([]Entry, error)
}

// Store is the in-memory catalog, ordered by insertion. All mutations
// persist through the snapshot port before returning.
type Store struct {
	mu       sync.RWMutex
	entries  []Entry
	snapshot Snapshot
}

// NewStore creates a Store backed by the given snapshot and loads any
// previously persisted catalog. A failed or missing snapshot is
// logged and treated as an empty catalog.
func NewStore(snapshot Snapshot) *Store {
	s := &Store{snapshot: snapshot}

	entries, err := snapshot.Load()
	if err != nil {
		logging.Warn("catalog: loading snapshot failed, starting empty: %v", err)
		return s
	}

	s.entries = entries
	logging.Info("catalog: loaded %d entries", len(entries))
	return s
}

// Add appends entries in the given order and persists the catalog.
func (s *Store) Add(entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entries...)
	metrics.CatalogEntries.Set(float64(len(s.entries)))
	return s.persistLocked()
}

// Remove deletes the entry with the given id and persists the catalog.
// Removing an absent id is a no-op; the catalog is not rewritten.
func (s *Store) Remove(id string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			metrics.CatalogEntries.Set(float64(len(s.entries)))
			return e, true, s.persistLocked()
		}
	}
	return Entry{}, false, nil
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries returns a copy of the catalog in insertion order.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// IndexOf returns the position of the entry with the given id, or -1.
func (s *Store) IndexOf(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Filter removes every entry for which keep returns false, persisting
// only if anything was dropped. Used at startup to discard entries
// whose stored bytes no longer exist.
func (s *Store) Filter(keep func(Entry) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	dropped := 0
	for _, e := range s.entries {
		if keep(e) {
			kept = append(kept, e)
		} else {
			dropped++
		}
	}

	if dropped == 0 {
		return nil
	}

	s.entries = kept
	metrics.CatalogEntries.Set(float64(len(s.entries)))
	logging.Warn("catalog: dropped %d entries with missing media", dropped)
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	if err := s.snapshot.Save(s.entries); err != nil {
		metrics.CatalogPersistTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("persist catalog: %w", err)
	}
	metrics.CatalogPersistTotal.WithLabelValues("success").Inc()
	return nil
}
