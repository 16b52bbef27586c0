// Package storage keeps uploaded images and hands back the URL they are served from
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// localStorage implements image storage on the local filesystem.
// Files are served by the API under baseURL.
type localStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a new localStorage instance
func NewLocalStorage(basePath, baseURL string) *localStorage {
	return &localStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// generatePath generates the full file path for key, rejecting keys that escape basePath
func (s *localStorage) generatePath(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.basePath, clean), nil
}

// Put writes body to key and returns the public URL of the stored file
func (s *localStorage) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	path, err := s.generatePath(key)
	if err != nil {
		return "", err
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return s.baseURL + "/" + filepath.ToSlash(key), nil
}

// Delete removes the file stored under key
func (s *localStorage) Delete(ctx context.Context, key string) error {
	path, err := s.generatePath(key)
	if err != nil {
		return err
	}
	return os.Remove(path)
}
