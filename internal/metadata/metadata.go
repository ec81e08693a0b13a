// Package metadata probes uploaded media for display tags.
//
// Probing is best effort: a file the tag parser cannot read simply
// yields empty Info, never an error the upload path has to handle.
package metadata

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/dhowden/tag"
	"github.com/tcolgate/mp3"

	"media-player/internal/logging"
)

// Info holds the tags probed from a media file. Zero values mean the
// file carried none, or probing failed.
type Info struct {
	Title           string
	Artist          string
	Album           string
	DurationSeconds float64
}

// Probe reads tags from the file at path. The original filename
// decides whether an mp3 duration scan is worth attempting.
func Probe(path, originalName string) Info {
	var info Info

	f, err := os.Open(path)
	if err != nil {
		logging.Debug("metadata: opening %s: %v", path, err)
		return info
	}
	defer f.Close()

	if meta, err := tag.ReadFrom(f); err == nil {
		info.Title = strings.TrimSpace(meta.Title())
		info.Artist = strings.TrimSpace(meta.Artist())
		info.Album = strings.TrimSpace(meta.Album())
	}

	if strings.HasSuffix(strings.ToLower(originalName), ".mp3") {
		if dur, err := mp3Duration(path); err == nil && dur > 0 {
			info.DurationSeconds = dur
		}
	}

	return info
}

// mp3Duration sums frame durations across the whole file.
func mp3Duration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	decoder := mp3.NewDecoder(f)
	var frame mp3.Frame
	var skipped int
	var total float64

	for {
		if err := decoder.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, err
		}
		total += frame.Duration().Seconds()
	}

	return total, nil
}
