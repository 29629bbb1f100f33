package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
)

// LocalStorage keeps objects on the local filesystem. Used for development
// and in tests; the key is the relative path under basePath.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base path: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (l *LocalStorage) Upload(ctx context.Context, request *UploadRequest) (*UploadResponse, error) {
	filePath := filepath.Join(l.basePath, filepath.FromSlash(request.Key))

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// os.Create truncates, so re-uploads replace the previous object.
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	size, err := io.Copy(file, request.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &UploadResponse{
		Key:  request.Key,
		Size: size,
	}, nil
}

func (l *LocalStorage) Download(ctx context.Context, key string) (*DownloadResponse, error) {
	filePath := filepath.Join(l.basePath, filepath.FromSlash(key))

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &DownloadResponse{
		Reader:       file,
		Size:         stat.Size(),
		ContentType:  contentTypeFor(key),
		LastModified: stat.ModTime(),
	}, nil
}

func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(l.basePath, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}

func (l *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(filepath.Join(l.basePath, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

func contentTypeFor(key string) string {
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
