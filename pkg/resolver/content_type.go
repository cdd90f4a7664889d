package resolver

import (
	"path"
	"strings"
)

const (
	// DefaultContentType is used for unknown extensions
	DefaultContentType = "application/octet-stream"
	webpContentType    = "image/webp"
)

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": webpContentType,
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".bmp":  "image/bmp",
	".avif": "image/avif",
	".ico":  "image/x-icon",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// imageExtensions are extensions returned by image listings
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".svg":  true,
	".avif": true,
}

// Ext returns lowercase extension of name
func Ext(name string) string {
	return strings.ToLower(path.Ext(strings.ReplaceAll(name, "\\", "/")))
}

// ContentType returns mime type for file name based on its extension
func ContentType(name string) string {
	ext := Ext(name)
	if ext == ".webp" {
		return webpContentType
	}

	if ct, ok := contentTypes[ext]; ok {
		return ct
	}

	return DefaultContentType
}

// HasKnownExtension reports whether name ends with extension from content type table
func HasKnownExtension(name string) bool {
	_, ok := contentTypes[Ext(name)]
	return ok
}

// IsImage reports whether name should be included in image listings
func IsImage(name string) bool {
	return imageExtensions[Ext(name)]
}
