// Package offline copies catalog media into a persistent cache so
// playback can survive the primary copy going away.
//
// The contract is deliberately loose: best-effort, no backpressure,
// no cancellation, no retry. Work is pushed onto a bounded queue and
// drained by a small worker pool; a full queue drops the task, and a
// failed fetch or write is logged and counted but never surfaces to
// the caller. An entry deleted while its cache task is in flight may
// still be written, leaving a harmless orphaned cache file.
package offline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"media-player/internal/blob"
	"media-player/internal/catalog"
	"media-player/internal/logging"
	"media-player/internal/metrics"
)

const fetchTimeout = 2 * time.Minute

// ErrUnknownURL indicates a playback URL the fetcher cannot resolve.
var ErrUnknownURL = errors.New("unknown playback URL")

// Fetcher retrieves the resource behind a playback URL.
type Fetcher interface {
	Fetch(ctx context.Context, playbackURL string) (io.ReadCloser, error)
}

// BlobFetcher resolves stream playback URLs straight out of the blob
// store, without a loopback HTTP round trip.
type BlobFetcher struct {
	Blobs *blob.Store
	// Prefix is the playback URL prefix entries are minted with,
	// e.g. "/api/stream/".
	Prefix string
}

// Fetch opens the blob referenced by playbackURL.
func (f *BlobFetcher) Fetch(_ context.Context, playbackURL string) (io.ReadCloser, error) {
	id, ok := strings.CutPrefix(playbackURL, f.Prefix)
	if !ok || id == "" || strings.Contains(id, "/") {
		return nil, fmt.Errorf("%w: %s", ErrUnknownURL, playbackURL)
	}
	return f.Blobs.Open(id)
}

// Manager owns the cache directory and the caching queue.
type Manager struct {
	dir     string
	fetcher Fetcher
	queue   chan catalog.Entry
	wg      sync.WaitGroup
	once    sync.Once
	enabled bool

	// mu orders sends against close(queue): Enqueue sends under the
	// read lock, Close flips closed and closes under the write lock.
	mu     sync.RWMutex
	closed bool
}

// NewManager creates a cache manager over dir with the given number
// of workers. An empty or unwritable dir disables caching entirely;
// Enqueue then silently does nothing.
func NewManager(dir string, fetcher Fetcher, workerCount int) *Manager {
	m := &Manager{dir: dir, fetcher: fetcher}

	if dir == "" {
		logging.Info("offline: cache disabled (no cache directory)")
		return m
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logging.Warn("offline: cache disabled, cannot create %s: %v", dir, err)
		return m
	}

	if workerCount < 1 {
		workerCount = 1
	}

	m.enabled = true
	m.queue = make(chan catalog.Entry, 64)
	m.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go m.worker()
	}

	logging.Info("offline: caching to %s with %d workers", dir, workerCount)
	return m
}

// Enabled reports whether the cache capability is available.
func (m *Manager) Enabled() bool {
	return m.enabled
}

// Enqueue queues entries for caching, fire-and-forget. Entries are
// dropped when caching is disabled or the queue is full.
func (m *Manager) Enqueue(entries ...catalog.Entry) {
	if !m.enabled {
		return
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return
	}
	for _, e := range entries {
		select {
		case m.queue <- e:
			metrics.OfflineCacheQueueDepth.Set(float64(len(m.queue)))
		default:
			metrics.OfflineCacheTotal.WithLabelValues("dropped").Inc()
			logging.Debug("offline: queue full, dropping %s", e.Name)
		}
	}
}

// Open returns a reader over the cached copy for playbackURL, if one
// exists.
func (m *Manager) Open(playbackURL string) (io.ReadCloser, bool) {
	if !m.enabled {
		return nil, false
	}
	f, err := os.Open(m.cachePath(playbackURL))
	if err != nil {
		return nil, false
	}
	return f, true
}

// Close stops accepting work and waits for in-flight tasks to drain.
// Enqueues racing or following Close drop their entries.
func (m *Manager) Close() {
	if !m.enabled {
		return
	}
	m.once.Do(func() {
		m.mu.Lock()
		m.closed = true
		close(m.queue)
		m.mu.Unlock()
		m.wg.Wait()
	})
}

func (m *Manager) worker() {
	defer m.wg.Done()
	for entry := range m.queue {
		metrics.OfflineCacheQueueDepth.Set(float64(len(m.queue)))
		m.cacheEntry(entry)
	}
}

// cacheEntry fetches one entry and writes it into the cache. All
// failures end here, as a log line and a counter.
func (m *Manager) cacheEntry(entry catalog.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	body, err := m.fetcher.Fetch(ctx, entry.PlaybackURL)
	if err != nil {
		metrics.OfflineCacheTotal.WithLabelValues("error").Inc()
		logging.Warn("offline: fetching %s: %v", entry.Name, err)
		return
	}
	defer body.Close()

	path := m.cachePath(entry.PlaybackURL)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		metrics.OfflineCacheTotal.WithLabelValues("error").Inc()
		logging.Warn("offline: creating cache file for %s: %v", entry.Name, err)
		return
	}

	written, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		_ = os.Remove(tmp)
		metrics.OfflineCacheTotal.WithLabelValues("error").Inc()
		logging.Warn("offline: caching %s: %v", entry.Name, err)
		return
	}

	metrics.OfflineCacheTotal.WithLabelValues("success").Inc()
	metrics.OfflineCacheBytes.Add(float64(written))
	logging.Debug("offline: cached %s (%d bytes)", entry.Name, written)
}

// cachePath keys cache files by the playback URL string, hashed into
// a safe filename.
func (m *Manager) cachePath(playbackURL string) string {
	sum := sha256.Sum256([]byte(playbackURL))
	return filepath.Join(m.dir, hex.EncodeToString(sum[:]))
}
