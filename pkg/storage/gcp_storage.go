package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gstorage "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCPStorage struct {
	client *gstorage.Client
	bucket string
}

func NewGCPStorage(bucket, credentialsFile string) (*GCPStorage, error) {
	ctx := context.Background()

	var client *gstorage.Client
	var err error

	if credentialsFile != "" {
		client, err = gstorage.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	} else {
		client, err = gstorage.NewClient(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create GCP storage client: %w", err)
	}

	return &GCPStorage{
		client: client,
		bucket: bucket,
	}, nil
}

func (g *GCPStorage) Upload(ctx context.Context, request *UploadRequest) (*UploadResponse, error) {
	object := g.client.Bucket(g.bucket).Object(request.Key)

	writer := object.NewWriter(ctx)
	writer.ContentType = request.ContentType
	if len(request.Metadata) > 0 {
		writer.Metadata = request.Metadata
	}

	size, err := io.Copy(writer, request.Reader)
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write to GCP storage: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	return &UploadResponse{
		Key:  request.Key,
		Size: size,
	}, nil
}

func (g *GCPStorage) Download(ctx context.Context, key string) (*DownloadResponse, error) {
	object := g.client.Bucket(g.bucket).Object(key)

	reader, err := object.NewReader(ctx)
	if err != nil {
		if errors.Is(err, gstorage.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create reader: %w", err)
	}

	return &DownloadResponse{
		Reader:       reader,
		Size:         reader.Attrs.Size,
		ContentType:  reader.Attrs.ContentType,
		LastModified: reader.Attrs.LastModified,
	}, nil
}

func (g *GCPStorage) Delete(ctx context.Context, key string) error {
	err := g.client.Bucket(g.bucket).Object(key).Delete(ctx)
	if err != nil {
		if errors.Is(err, gstorage.ErrObjectNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete from GCP storage: %w", err)
	}
	return nil
}

func (g *GCPStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := g.client.Bucket(g.bucket).Object(key).Attrs(ctx)
	if err != nil {
		if errors.Is(err, gstorage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get object attributes: %w", err)
	}
	return true, nil
}
