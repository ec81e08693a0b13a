package catalog

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"media-player/internal/mediatypes"
)

// memorySnapshot is an in-memory Snapshot for tests.
type memorySnapshot struct {
	entries []Entry
	saves   int
	saveErr error
	loadErr error
}

func (m *memorySnapshot) Save(entries []Entry) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.entries = make([]Entry, len(entries))
	copy(m.entries, entries)
	m.saves++
	return nil
}

func (m *memorySnapshot) Load() ([]Entry, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func testEntry(id, name string, kind mediatypes.Kind) Entry {
	return Entry{
		ID:          id,
		Name:        name,
		PlaybackURL: "/api/stream/" + id,
		Size:        int64(len(name)),
		Kind:        kind,
		AddedAt:     time.Unix(1700000000, 0).UTC(),
	}
}

func TestStoreAddPreservesOrder(t *testing.T) {
	snap := &memorySnapshot{}
	store := NewStore(snap)

	a := testEntry("1", "a.mp3", mediatypes.KindAudio)
	b := testEntry("2", "b.mp4", mediatypes.KindVideo)
	c := testEntry("3", "c.webm", mediatypes.KindVideo)

	if err := store.Add(a, b); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := store.Add(c); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	got := store.Entries()
	want := []Entry{a, b, c}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Entries() = %+v, want %+v", got, want)
	}

	if snap.saves != 2 {
		t.Errorf("snapshot saved %d times, want 2 (one per mutation)", snap.saves)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	snap := &memorySnapshot{}
	store := NewStore(snap)

	entries := []Entry{
		testEntry("1", "a.mp3", mediatypes.KindAudio),
		testEntry("2", "b.mp4", mediatypes.KindVideo),
		testEntry("3", "c.flac", mediatypes.KindAudio),
	}
	if err := store.Add(entries...); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	// A new store on the same snapshot must see the same ordered catalog.
	reloaded := NewStore(snap)
	if got := reloaded.Entries(); !reflect.DeepEqual(got, entries) {
		t.Errorf("reloaded Entries() = %+v, want %+v", got, entries)
	}
}

func TestStoreRemove(t *testing.T) {
	snap := &memorySnapshot{}
	store := NewStore(snap)

	a := testEntry("1", "a.mp3", mediatypes.KindAudio)
	b := testEntry("2", "b.mp4", mediatypes.KindVideo)
	if err := store.Add(a, b); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	removed, ok, err := store.Remove("1")
	if err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if !ok {
		t.Fatal("Remove(existing) reported not found")
	}
	if removed.ID != "1" {
		t.Errorf("Remove returned entry %q, want %q", removed.ID, "1")
	}

	if got := store.Entries(); !reflect.DeepEqual(got, []Entry{b}) {
		t.Errorf("Entries() after remove = %+v, want %+v", got, []Entry{b})
	}

	// Removing an absent id is a no-op and does not rewrite the snapshot.
	savesBefore := snap.saves
	_, ok, err = store.Remove("missing")
	if err != nil {
		t.Fatalf("Remove(missing) returned error: %v", err)
	}
	if ok {
		t.Error("Remove(missing) reported found")
	}
	if snap.saves != savesBefore {
		t.Errorf("Remove(missing) persisted the catalog (%d saves, want %d)", snap.saves, savesBefore)
	}
}

func TestStoreLoadFailureStartsEmpty(t *testing.T) {
	snap := &memorySnapshot{loadErr: errors.New("corrupt")}
	store := NewStore(snap)

	if store.Len() != 0 {
		t.Errorf("Len() = %d after failed load, want 0", store.Len())
	}
}

func TestStoreIndexOf(t *testing.T) {
	store := NewStore(&memorySnapshot{})
	if err := store.Add(
		testEntry("a", "a.mp3", mediatypes.KindAudio),
		testEntry("b", "b.mp3", mediatypes.KindAudio),
	); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	if got := store.IndexOf("b"); got != 1 {
		t.Errorf("IndexOf(b) = %d, want 1", got)
	}
	if got := store.IndexOf("nope"); got != -1 {
		t.Errorf("IndexOf(nope) = %d, want -1", got)
	}
}

func TestStoreFilter(t *testing.T) {
	snap := &memorySnapshot{}
	store := NewStore(snap)
	a := testEntry("a", "a.mp3", mediatypes.KindAudio)
	b := testEntry("b", "b.mp4", mediatypes.KindVideo)
	if err := store.Add(a, b); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	if err := store.Filter(func(e Entry) bool { return e.ID != "a" }); err != nil {
		t.Fatalf("Filter returned error: %v", err)
	}
	if got := store.Entries(); !reflect.DeepEqual(got, []Entry{b}) {
		t.Errorf("Entries() after filter = %+v, want %+v", got, []Entry{b})
	}

	// Filter that keeps everything must not persist.
	savesBefore := snap.saves
	if err := store.Filter(func(Entry) bool { return true }); err != nil {
		t.Fatalf("Filter returned error: %v", err)
	}
	if snap.saves != savesBefore {
		t.Errorf("no-op Filter persisted the catalog")
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("NewID produced duplicate %q", id)
		}
		seen[id] = true
	}
}
