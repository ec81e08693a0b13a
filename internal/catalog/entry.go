package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"media-player/internal/mediatypes"
)

// Entry is a single item in the media catalog. Entries are immutable
// after creation; the catalog only appends and removes them.
type Entry struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	PlaybackURL string          `json:"playbackUrl"`
	Size        int64           `json:"size"`
	MimeType    string          `json:"mimeType,omitempty"`
	Kind        mediatypes.Kind `json:"kind"`
	AddedAt     time.Time       `json:"addedAt"`

	// Probed tags, best effort. Empty when probing failed or the
	// container carries none.
	Title           string  `json:"title,omitempty"`
	Artist          string  `json:"artist,omitempty"`
	Album           string  `json:"album,omitempty"`
	DurationSeconds float64 `json:"durationSeconds,omitempty"`
}

// NewID generates a unique entry id: a millisecond timestamp plus a
// random fragment, so ids created within the same tick cannot collide.
func NewID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
