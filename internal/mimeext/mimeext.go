package mimeext

import (
	"strings"
)

const (
	// DefaultExt is the extension used when MIME is unknown or empty.
	DefaultExt = "jpg"

	// ExtPNG is the file extension for PNG images.
	ExtPNG = "png"
	// ExtWebP is the file extension for WebP images.
	ExtWebP = "webp"
	// ExtGIF is the file extension for GIF images.
	ExtGIF = "gif"
	// ExtAVIF is the file extension for AVIF images.
	ExtAVIF = "avif"

	// MimeJPEG is the MIME type for JPEG images.
	MimeJPEG = "image/jpeg"
	// MimePNG is the MIME type for PNG images.
	MimePNG = "image/png"
	// MimeWebP is the MIME type for WebP images.
	MimeWebP = "image/webp"
	// MimeGIF is the MIME type for GIF images.
	MimeGIF = "image/gif"
	// MimeAVIF is the MIME type for AVIF images.
	MimeAVIF = "image/avif"
)

// ExtFromMime returns file extension (without dot) for given mime type.
// Falls back to subtype or jpg if unknown.
func ExtFromMime(mime string) string {
	mime = strings.TrimSpace(mime)
	if mime == "" {
		return DefaultExt
	}
	base := mime
	if i := strings.Index(mime, ";"); i >= 0 {
		base = strings.TrimSpace(mime[:i])
	}
	switch base {
	case MimeJPEG:
		return DefaultExt
	case MimePNG:
		return ExtPNG
	case MimeWebP:
		return ExtWebP
	case MimeGIF:
		return ExtGIF
	case MimeAVIF:
		return ExtAVIF
	}
	// Try subtype
	parts := strings.Split(base, "/")
	if len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}
	return DefaultExt
}

// ExtFromURL guesses the extension from a URL path, without the dot.
// Query strings are ignored; unknown or absent extensions fall back to jpg.
func ExtFromURL(rawURL string) string {
	path := rawURL
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	i := strings.LastIndex(path, ".")
	if i < 0 || i == len(path)-1 {
		return DefaultExt
	}
	ext := strings.ToLower(path[i+1:])
	switch ext {
	case "jpg", "jpeg":
		return DefaultExt
	case ExtPNG, ExtWebP, ExtGIF, ExtAVIF:
		return ext
	}
	return DefaultExt
}
