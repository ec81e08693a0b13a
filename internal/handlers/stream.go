package handlers

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"media-player/internal/logging"
)

// StreamMedia serves the bytes behind a playback URL with range
// support. When the primary blob is gone the offline cache is tried;
// a cached copy may outlive its catalog entry.
func (h *Handlers) StreamMedia(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	entry, ok := h.store.Get(id)
	if ok {
		w.Header().Set("Content-Type", entry.MimeType)
	}

	f, err := h.blobs.Open(id)
	if err == nil {
		defer f.Close()
		name := id
		if ok {
			name = entry.Name
		}
		http.ServeContent(w, r, name, entry.AddedAt, f)
		return
	}

	cached, ok := h.offline.Open(StreamPrefix + id)
	if !ok {
		http.Error(w, "media not found", http.StatusNotFound)
		return
	}
	defer cached.Close()

	logging.Debug("stream: serving %s from offline cache", id)
	if rs, ok := cached.(io.ReadSeeker); ok {
		http.ServeContent(w, r, entry.Name, entry.AddedAt, rs)
		return
	}
	if _, err := io.Copy(w, cached); err != nil {
		logging.Debug("stream: client gone while serving %s: %v", id, err)
	}
}
