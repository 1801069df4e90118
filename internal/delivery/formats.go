package delivery

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// FormatClass describes how a file format behaves when converted
type FormatClass int

const (
	// Raster formats are static bitmaps that can safely be converted to the default delivery format
	Raster FormatClass = iota + 1
	// Animated formats lose their animation when converted
	Animated
	// Vector formats lose their scalability when converted
	Vector
)

// FormatTable maps file extensions and mimetypes to format classes.
// It is built once by the host application and is read-only afterwards.
type FormatTable struct {
	classes    map[string]FormatClass
	extensions map[string]string
}

// NewFormatTable returns an empty format table
func NewFormatTable() *FormatTable {
	return &FormatTable{
		classes:    make(map[string]FormatClass),
		extensions: make(map[string]string),
	}
}

// DefaultFormats returns a format table for the formats the delivery service accepts
func DefaultFormats() *FormatTable {
	t := NewFormatTable()

	for _, ext := range []string{"jpg", "jpeg", "jpe", "png", "webp", "bmp", "tif", "tiff", "heic", "avif"} {
		t.SetClass(ext, Raster)
	}

	t.SetClass("gif", Animated)
	t.SetClass("apng", Animated)
	t.SetClass("svg", Vector)

	t.SetExtension("image/gif", "gif")
	t.SetExtension("image/jpeg", "jpg")
	t.SetExtension("image/png", "png")
	t.SetExtension("image/svg+xml", "svg")
	t.SetExtension("image/tiff", "tiff")
	t.SetExtension("image/webp", "webp")

	return t
}

// SetClass sets the class of a file extension
func (t *FormatTable) SetClass(extension string, class FormatClass) {
	t.classes[normalizeExtension(extension)] = class
}

// Class returns the class of a file extension
func (t *FormatTable) Class(extension string) (FormatClass, bool) {
	class, ok := t.classes[normalizeExtension(extension)]
	return class, ok
}

// SetExtension sets the preferred file extension for a mimetype
func (t *FormatTable) SetExtension(mimeType, extension string) {
	t.extensions[strings.ToLower(mimeType)] = normalizeExtension(extension)
}

// ExtensionForMimeType returns a file extension for a mimetype, without the leading dot.
// Mimetypes missing from the table fall back to the mimetype database.
func (t *FormatTable) ExtensionForMimeType(mimeType string) (string, bool) {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if ext, ok := t.extensions[mimeType]; ok {
		return ext, true
	}

	if m := mimetype.Lookup(mimeType); m != nil && m.Extension() != "" {
		return normalizeExtension(m.Extension()), true
	}

	return "", false
}

func normalizeExtension(extension string) string {
	return strings.ToLower(strings.TrimPrefix(extension, "."))
}
