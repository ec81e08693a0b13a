package offline

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"media-player/internal/blob"
	"media-player/internal/catalog"
)

type mapFetcher struct {
	content map[string]string
	err     error
}

func (f *mapFetcher) Fetch(_ context.Context, playbackURL string) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.content[playbackURL]
	if !ok {
		return nil, ErrUnknownURL
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func TestEnqueueCachesEntries(t *testing.T) {
	fetcher := &mapFetcher{content: map[string]string{
		"/api/stream/a": "audio bytes",
		"/api/stream/b": "video bytes",
	}}

	m := NewManager(t.TempDir(), fetcher, 2)
	m.Enqueue(
		catalog.Entry{ID: "a", Name: "a.mp3", PlaybackURL: "/api/stream/a"},
		catalog.Entry{ID: "b", Name: "b.mp4", PlaybackURL: "/api/stream/b"},
	)
	m.Close()

	for url, want := range map[string]string{
		"/api/stream/a": "audio bytes",
		"/api/stream/b": "video bytes",
	} {
		r, ok := m.Open(url)
		if !ok {
			t.Fatalf("Open(%q) = not cached", url)
		}
		got, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			t.Fatalf("reading cached %q: %v", url, err)
		}
		if string(got) != want {
			t.Errorf("cached %q = %q, want %q", url, got, want)
		}
	}
}

func TestFetchFailureIsSilent(t *testing.T) {
	m := NewManager(t.TempDir(), &mapFetcher{err: errors.New("boom")}, 1)

	// Must not panic, block, or surface anything.
	m.Enqueue(catalog.Entry{ID: "a", Name: "a.mp3", PlaybackURL: "/api/stream/a"})
	m.Close()

	if _, ok := m.Open("/api/stream/a"); ok {
		t.Error("failed fetch still produced a cache file")
	}
}

func TestDisabledManager(t *testing.T) {
	m := NewManager("", nil, 1)

	if m.Enabled() {
		t.Error("Enabled() = true with no cache directory")
	}

	// All operations are silent no-ops.
	m.Enqueue(catalog.Entry{ID: "a", PlaybackURL: "/api/stream/a"})
	if _, ok := m.Open("/api/stream/a"); ok {
		t.Error("Open returned a reader from a disabled cache")
	}
	m.Close()
}

func TestEnqueueAfterCloseIsNoop(t *testing.T) {
	m := NewManager(t.TempDir(), &mapFetcher{}, 1)
	m.Close()

	// Must not panic on the closed queue.
	m.Enqueue(catalog.Entry{ID: "a", PlaybackURL: "/api/stream/a"})
	m.Close()
}

func TestEnqueueRacesClose(t *testing.T) {
	fetcher := &mapFetcher{content: map[string]string{
		"/api/stream/a": "bytes",
	}}
	entry := catalog.Entry{ID: "a", Name: "a.mp3", PlaybackURL: "/api/stream/a"}

	m := NewManager(t.TempDir(), fetcher, 2)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			m.Enqueue(entry)
		}
	}()
	m.Close()
	<-done
}

func TestOpenMissesUncachedURL(t *testing.T) {
	m := NewManager(t.TempDir(), &mapFetcher{}, 1)
	defer m.Close()

	if _, ok := m.Open("/api/stream/never-cached"); ok {
		t.Error("Open hit for a URL that was never cached")
	}
}

func TestBlobFetcher(t *testing.T) {
	blobs, err := blob.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}
	if _, err := blobs.Put("abc", strings.NewReader("payload")); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	fetcher := &BlobFetcher{Blobs: blobs, Prefix: "/api/stream/"}

	r, err := fetcher.Fetch(context.Background(), "/api/stream/abc")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	got, _ := io.ReadAll(r)
	r.Close()
	if string(got) != "payload" {
		t.Errorf("Fetch content = %q, want %q", got, "payload")
	}

	for _, url := range []string{"/other/abc", "/api/stream/", "/api/stream/a/b"} {
		if _, err := fetcher.Fetch(context.Background(), url); !errors.Is(err, ErrUnknownURL) {
			t.Errorf("Fetch(%q) error = %v, want ErrUnknownURL", url, err)
		}
	}
}
