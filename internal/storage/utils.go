package storage

import (
	"github.com/google/uuid"
)

// Image content types accepted for upload
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
)

// GenerateFileName generates a new file name based on the file extension
// It creates a UUID-based filename with the provided extension
func GenerateFileName(extension string) string {
	newUUID := uuid.New().String()
	// Ensure extension starts with a dot if it doesn't already
	if extension != "" && extension[0] != '.' {
		return newUUID + "." + extension
	}
	return newUUID + extension
}

// ExtensionFor returns the file extension for an accepted image content type
func ExtensionFor(contentType string) (string, bool) {
	switch contentType {
	case ContentTypeJPEG:
		return ".jpg", true
	case ContentTypePNG:
		return ".png", true
	default:
		return "", false
	}
}
