// Package storage keeps uploaded originals and derived thumbnails under
// slash-separated keys such as "images/<uuid>.png".
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	ErrNotFound   = errors.New("object not found")
	ErrInvalidKey = errors.New("invalid storage key")
)

// MediaPrefix is the URL prefix every backend's public URLs live under.
const MediaPrefix = "/media/"

type Storage interface {
	// Save writes r under key, replacing any existing object, and returns the
	// number of bytes written.
	Save(ctx context.Context, key string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// CleanKey normalizes key and rejects anything that would escape the
// storage root.
func CleanKey(key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

func mediaURL(key string) string {
	return MediaPrefix + key
}
