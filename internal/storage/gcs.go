package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"go-equipment-analytics/internal/ports"
	"go-equipment-analytics/pkg/logger"
)

// GCS stores objects in a Google Cloud Storage bucket under an optional prefix.
type GCS struct {
	log    *logger.Logger
	client *storage.Client
	bucket string
	prefix string
}

var _ ports.FileStore = (*GCS)(nil)

// NewGCS connects with the service-account file when given, otherwise with
// application default credentials.
func NewGCS(ctx context.Context, log *logger.Logger, bucket, prefix, credentialsFile string) (*GCS, error) {
	storeLog := log.With("component", "gcs")
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket name is required")
	}
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	} else {
		storeLog.Warn("No GCS credentials file configured, relying on application default credentials")
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCS{log: storeLog, client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

func (g *GCS) object(key string) *storage.ObjectHandle {
	name := strings.TrimPrefix(key, "/")
	if g.prefix != "" {
		name = path.Join(g.prefix, name)
	}
	return g.client.Bucket(g.bucket).Object(name)
}

func (g *GCS) Put(ctx context.Context, key string, r io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	w := g.object(key).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %s to gcs: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close gcs writer for %s: %w", key, err)
	}
	return nil
}

func (g *GCS) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := g.object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%s: %w", key, ports.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s from gcs: %w", key, err)
	}
	return rc, nil
}

func (g *GCS) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	err := g.object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete gcs object %q: %w", key, err)
	}
	return nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}
