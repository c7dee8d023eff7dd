package ports

import (
	"context"
	"errors"
	"io"

	"go-equipment-analytics/internal/model"
)

// ErrNotFound is returned when a record is absent or owned by another user.
var ErrNotFound = errors.New("not found")

// ErrSettled is returned when a dataset that already reached ready or error
// is asked to transition again.
var ErrSettled = errors.New("dataset already settled")

// DatasetStore persists datasets and their summaries.
type DatasetStore interface {
	CreateDataset(ctx context.Context, d *model.Dataset) error
	MarkReady(ctx context.Context, id string, rows, cols int) error
	MarkError(ctx context.Context, id, msg string) error
	SetReportKey(ctx context.Context, id, key string) error
	GetDataset(ctx context.Context, userID, id string) (model.Dataset, error)
	// ListDatasets returns the user's datasets newest first. limit <= 0 means all.
	ListDatasets(ctx context.Context, userID string, limit int) ([]model.Dataset, error)
	// DeleteDataset removes the dataset and its summaries. Artifacts are the caller's concern.
	DeleteDataset(ctx context.Context, userID, id string) error

	CreateSummary(ctx context.Context, s *model.Summary) error
	LatestSummary(ctx context.Context, datasetID string) (model.Summary, error)

	// InTx runs fn against a store bound to a single transaction.
	InTx(ctx context.Context, fn func(tx DatasetStore) error) error
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	UpsertUser(ctx context.Context, u *model.User) (created bool, err error)
	GetUser(ctx context.Context, id string) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
}

// FileStore holds raw uploads and generated reports.
type FileStore interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object. A missing object is not an error.
	Delete(ctx context.Context, key string) error
}
