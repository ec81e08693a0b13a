// Package handlers exposes the catalog, stream, and transport API the
// browser UI drives.
package handlers

import (
	"io"

	"media-player/internal/blob"
	"media-player/internal/catalog"
	"media-player/internal/offline"
	"media-player/internal/player"
)

// StreamPrefix is the URL prefix entries are minted with; the stream
// route and the playback URLs in the catalog must agree on it.
const StreamPrefix = "/api/stream/"

// Ingestor is the upload pipeline the handlers feed. Satisfied by
// *ingest.Ingestor.
type Ingestor interface {
	FromReader(name, mimeType string, r io.Reader) (catalog.Entry, error)
}

type Handlers struct {
	store      *catalog.Store
	blobs      *blob.Store
	controller *player.Controller
	offline    *offline.Manager
	ingestor   Ingestor
	audio      *player.MirrorEngine
	video      *player.MirrorEngine
}

// New wires the handlers to their collaborators.
func New(store *catalog.Store, blobs *blob.Store, controller *player.Controller,
	off *offline.Manager, ing Ingestor, audio, video *player.MirrorEngine) *Handlers {
	return &Handlers{
		store:      store,
		blobs:      blobs,
		controller: controller,
		offline:    off,
		ingestor:   ing,
		audio:      audio,
		video:      video,
	}
}
