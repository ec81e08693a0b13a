// Package ingest turns raw files into catalog entries: bytes into the
// blob store, tags probed, entry appended, offline caching queued.
package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"media-player/internal/blob"
	"media-player/internal/catalog"
	"media-player/internal/filesystem"
	"media-player/internal/logging"
	"media-player/internal/mediatypes"
	"media-player/internal/metadata"
	"media-player/internal/metrics"
	"media-player/internal/offline"
)

// Ingestor wires the stores an incoming file passes through.
type Ingestor struct {
	Store   *catalog.Store
	Blobs   *blob.Store
	Offline *offline.Manager
	// StreamPrefix is prepended to entry ids to form playback URLs.
	StreamPrefix string
}

// FromReader ingests a single file from an upload stream. The entry
// is appended to the catalog and queued for offline caching; tag
// probing is best effort.
func (ing *Ingestor) FromReader(name, mimeType string, r io.Reader) (catalog.Entry, error) {
	id := catalog.NewID()

	size, err := ing.Blobs.Put(id, r)
	if err != nil {
		return catalog.Entry{}, fmt.Errorf("store %s: %w", name, err)
	}

	kind := mediatypes.Classify(mimeType, name)
	if mimeType == "" {
		mimeType = mediatypes.MimeTypeFor(name)
	}

	info := metadata.Probe(ing.Blobs.Path(id), name)

	entry := catalog.Entry{
		ID:              id,
		Name:            name,
		PlaybackURL:     ing.StreamPrefix + id,
		Size:            size,
		MimeType:        mimeType,
		Kind:            kind,
		AddedAt:         time.Now().UTC(),
		Title:           info.Title,
		Artist:          info.Artist,
		Album:           info.Album,
		DurationSeconds: info.DurationSeconds,
	}

	if err := ing.Store.Add(entry); err != nil {
		// The catalog could not be persisted; drop the orphaned blob
		// so it does not leak.
		if rmErr := ing.Blobs.Remove(id); rmErr != nil {
			logging.Warn("ingest: removing orphaned blob %s: %v", id, rmErr)
		}
		return catalog.Entry{}, err
	}

	metrics.UploadsTotal.WithLabelValues(string(kind)).Inc()
	metrics.UploadBytesTotal.Add(float64(size))
	logging.Info("ingest: added %s (%s, %d bytes)", name, kind, size)

	ing.Offline.Enqueue(entry)
	return entry, nil
}

// FromFile ingests a file already on disk, inferring the MIME type
// from its extension. The open is retried because import folders may
// sit on network mounts where freshly copied files are briefly stale.
func (ing *Ingestor) FromFile(path string) (catalog.Entry, error) {
	f, err := filesystem.Open(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return catalog.Entry{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	name := filepath.Base(path)
	return ing.FromReader(name, mediatypes.MimeTypeFor(name), f)
}
