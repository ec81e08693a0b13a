package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"media-player/internal/catalog"
	"media-player/internal/logging"
	"media-player/internal/playlist"
)

// maxUploadMemory bounds how much of a multipart upload is buffered
// in memory before spilling to temp files.
const maxUploadMemory = 32 << 20

// ListCatalog returns all entries in insertion order.
func (h *Handlers) ListCatalog(w http.ResponseWriter, _ *http.Request) {
	entries := h.store.Entries()
	if entries == nil {
		entries = []catalog.Entry{}
	}
	writeJSON(w, entries)
}

// ExportPlaylist renders the catalog as an extended M3U playlist with
// absolute stream URLs for the requesting host.
func (h *Handlers) ExportPlaylist(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	baseURL := scheme + "://" + r.Host

	w.Header().Set("Content-Type", playlist.MimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="catalog.m3u"`)
	if err := playlist.WriteM3U(w, baseURL, h.store.Entries()); err != nil {
		logging.Warn("writing playlist: %v", err)
	}
}

// Upload accepts a batch of media files ("files" form field) and
// appends them to the catalog. Per-file classification follows the
// declared MIME type, then the filename extension; offline caching of
// the new entries is queued fire-and-forget by the ingest pipeline.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeJSONError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logging.Warn("cleaning upload temp files: %v", err)
		}
	}()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeJSONError(w, "no files provided", http.StatusBadRequest)
		return
	}

	added := make([]catalog.Entry, 0, len(files))
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			logging.Error("opening uploaded %s: %v", header.Filename, err)
			writeJSONError(w, "failed to read upload", http.StatusInternalServerError)
			return
		}

		entry, err := h.ingestor.FromReader(header.Filename, header.Header.Get("Content-Type"), f)
		f.Close()
		if err != nil {
			logging.Error("ingesting %s: %v", header.Filename, err)
			writeJSONError(w, "failed to store upload", http.StatusInternalServerError)
			return
		}
		added = append(added, entry)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, added)
}

// DeleteEntry removes an entry from the catalog and tears down
// playback if it was the current track. Deleting an absent id is a
// no-op, not an error.
func (h *Handlers) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	_, found, err := h.store.Remove(id)
	if err != nil {
		logging.Error("removing %s from catalog: %v", id, err)
		writeJSONError(w, "failed to persist catalog", http.StatusInternalServerError)
		return
	}

	h.controller.Eject(id)

	if found {
		if err := h.blobs.Remove(id); err != nil {
			logging.Warn("removing blob for %s: %v", id, err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
