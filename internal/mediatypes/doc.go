// Package mediatypes classifies uploaded files as audio or video.
//
// Classification prefers the declared MIME type; files without a
// usable MIME type fall back to a known set of video filename
// extensions, and everything else is treated as audio.
package mediatypes
