package mediatypes

import (
	"path/filepath"
	"strings"
)

// Kind is the playback classification of a media entry.
type Kind string

const (
	// KindAudio routes an entry to the audio engine and transport.
	KindAudio Kind = "audio"
	// KindVideo routes an entry to the video engine and transport.
	KindVideo Kind = "video"
)

// VideoExtensions maps filename extensions to whether they are treated
// as video when the MIME type is missing or ambiguous.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
}

// MimeTypes maps known extensions to their MIME types, for entries
// that arrive without one (e.g. from the import directory).
var MimeTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/opus",
	".flac": "audio/flac",
	".wav":  "audio/wav",

	".mp4":  "video/mp4",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
}

// Classify determines the playback kind of a file.
//
// A MIME type beginning "video/" or "audio/" wins regardless of the
// filename. Otherwise the filename extension is matched
// case-insensitively against VideoExtensions, and anything left over
// defaults to audio.
func Classify(mimeType, filename string) Kind {
	switch {
	case strings.HasPrefix(mimeType, "video/"):
		return KindVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return KindAudio
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if VideoExtensions[ext] {
		return KindVideo
	}
	return KindAudio
}

// MimeTypeFor returns the MIME type for a filename based on its
// extension, or "application/octet-stream" if unknown.
func MimeTypeFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}
