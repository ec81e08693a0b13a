// Package playlist renders the catalog as an extended M3U playlist, so
// the library can be handed to an external player in one file.
package playlist

import (
	"fmt"
	"io"
	"math"
	"strings"

	"media-player/internal/catalog"
)

// MimeType is the conventional content type for M3U playlists.
const MimeType = "audio/x-mpegurl"

// WriteM3U writes entries as an extended M3U playlist. Stream URLs are
// relative, so the playlist only works against the serving host unless
// a base URL is supplied. Entries keep catalog order.
func WriteM3U(w io.Writer, baseURL string, entries []catalog.Entry) error {
	baseURL = strings.TrimSuffix(baseURL, "/")

	if _, err := fmt.Fprintln(w, "#EXTM3U"); err != nil {
		return err
	}

	for _, e := range entries {
		// EXTINF wants whole seconds; unknown duration is -1.
		seconds := int(math.Round(e.DurationSeconds))
		if seconds <= 0 {
			seconds = -1
		}
		if _, err := fmt.Fprintf(w, "#EXTINF:%d,%s\n", seconds, displayName(e)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", baseURL, e.PlaybackURL); err != nil {
			return err
		}
	}

	return nil
}

// displayName prefers probed tags over the upload filename.
func displayName(e catalog.Entry) string {
	if e.Title == "" {
		return e.Name
	}
	if e.Artist != "" {
		return e.Artist + " - " + e.Title
	}
	return e.Title
}
