// Package storage abstracts the blob store holding uploaded media. The rest
// of the application only ever sees final URLs; a video metadata row is
// written only after a store reported the payload durable.
package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ObjectInput describes one binary payload to persist.
type ObjectInput struct {
	Filename    string
	ContentType string
	Content     []byte
}

// StoredObject is the durable result of a Save.
type StoredObject struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ObjectStore maps a payload to a stored blob plus a retrievable URL.
// LocalStore is the disk implementation; an S3-style presigning store can
// implement the same interface.
type ObjectStore interface {
	Save(ctx context.Context, in ObjectInput) (*StoredObject, error)
}

// LocalStore writes blobs under a directory served at baseURL.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the directory blobs are written to, for static file serving.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(_ context.Context, in ObjectInput) (*StoredObject, error) {
	ext := filepath.Ext(in.Filename)
	if ext == "" {
		if exts, err := mime.ExtensionsByType(in.ContentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}

	key := uuid.New().String() + ext
	path := filepath.Join(s.dir, key)

	tmp := path + ".part"
	if err := os.WriteFile(tmp, in.Content, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write blob: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("failed to finalize blob: %w", err)
	}

	return &StoredObject{
		Key: key,
		URL: s.baseURL + "/" + key,
	}, nil
}

// IsVideoContentType reports whether ct names a video media type.
func IsVideoContentType(ct string) bool {
	parsed, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return strings.HasPrefix(parsed, "video/")
}
