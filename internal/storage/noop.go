package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// NoopStorage is used when S3 is not configured (local development without
// MinIO). Uploads are accepted and logged but not persisted.
type NoopStorage struct{}

func NewNoopStorage() *NoopStorage {
	return &NoopStorage{}
}

func (n *NoopStorage) Save(_ context.Context, key string, file io.Reader) error {
	size, _ := io.Copy(io.Discard, file)
	slog.Info("storage save (noop)", "key", key, "bytes", size)
	return nil
}

func (n *NoopStorage) Delete(_ context.Context, key string) error {
	slog.Info("storage delete (noop)", "key", key)
	return nil
}

func (n *NoopStorage) URL(key string) string {
	return fmt.Sprintf("/images/%s", key)
}
