package handlers

import (
	"net/http"
	"runtime"

	"media-player/internal/startup"
)

// HealthResponse contains the health check response.
type HealthResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	CatalogEntries int    `json:"catalogEntries"`
	OfflineCache   bool   `json:"offlineCache"`
	GoVersion      string `json:"goVersion"`
	NumGoroutine   int    `json:"numGoroutine"`
}

// HealthCheck reports service health. The player has no slow startup
// phase, so a running process is a healthy one.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, HealthResponse{
		Status:         "healthy",
		Version:        startup.Version,
		CatalogEntries: h.store.Len(),
		OfflineCache:   h.offline.Enabled(),
		GoVersion:      runtime.Version(),
		NumGoroutine:   runtime.NumGoroutine(),
	})
}

// GetVersion returns the application version and build information.
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, startup.GetBuildInfo())
}
