package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned by Download when no object exists at the key.
// Callers rely on it to tell "contract missing" apart from transport
// failures, so providers must map their native not-found errors onto it.
var ErrNotFound = errors.New("storage: object not found")

// Provider is a blob store. Uploads overwrite: writing to an existing key
// replaces the object rather than erroring or versioning it.
type Provider interface {
	Upload(ctx context.Context, request *UploadRequest) (*UploadResponse, error)
	Download(ctx context.Context, key string) (*DownloadResponse, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

type UploadRequest struct {
	Key         string            `json:"key"`
	Reader      io.Reader         `json:"-"`
	ContentType string            `json:"content_type"`
	Size        int64             `json:"size"`
	Metadata    map[string]string `json:"metadata"`
}

type UploadResponse struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
	ETag string `json:"etag"`
}

type DownloadResponse struct {
	Reader       io.ReadCloser     `json:"-"`
	Size         int64             `json:"size"`
	ContentType  string            `json:"content_type"`
	Metadata     map[string]string `json:"metadata"`
	LastModified time.Time         `json:"last_modified"`
}
