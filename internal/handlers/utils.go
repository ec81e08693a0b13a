package handlers

import (
	"encoding/json"
	"net/http"

	"media-player/internal/logging"
)

// writeJSON encodes v as JSON onto the response. Encoding errors are
// logged; there is nothing else to do for them mid-response.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("encoding JSON response: %v", err)
	}
}

// writeJSONError writes an error body with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}
