package pipeline

import (
	"context"
	"fmt"
	"sort"

	"go-equipment-analytics/internal/model"
	"go-equipment-analytics/internal/ports"
	"go-equipment-analytics/pkg/logger"
)

// DefaultMaxKept is the number of datasets retained per user.
const DefaultMaxKept = 5

// SelectRetained splits a snapshot of one user's datasets into the maxKept most
// recently created ones and the rest. Ties on CreatedAt are broken by ID,
// descending. The input slice is not reordered.
func SelectRetained(datasets []model.Dataset, maxKept int) (keep, prune []model.Dataset) {
	if maxKept < 0 {
		maxKept = 0
	}
	ordered := make([]model.Dataset, len(datasets))
	copy(ordered, datasets)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	if len(ordered) <= maxKept {
		return ordered, nil
	}
	return ordered[:maxKept], ordered[maxKept:]
}

// Retention caps the number of datasets each user keeps.
type Retention struct {
	Store   ports.DatasetStore
	Files   ports.FileStore
	Log     *logger.Logger
	MaxKept int
}

// NewRetention returns a policy keeping maxKept datasets per user.
func NewRetention(st ports.DatasetStore, files ports.FileStore, log *logger.Logger, maxKept int) *Retention {
	return &Retention{
		Store:   st,
		Files:   files,
		Log:     log.With("component", "retention"),
		MaxKept: maxKept,
	}
}

// Enforce deletes every dataset of userID beyond the MaxKept newest, then
// releases their stored files. It is a no-op when the user is within the limit.
func (rp *Retention) Enforce(ctx context.Context, userID string) ([]model.Dataset, error) {
	var pruned []model.Dataset
	err := rp.Store.InTx(ctx, func(tx ports.DatasetStore) error {
		var err error
		pruned, err = rp.prune(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	ReleaseArtifacts(ctx, rp.Files, rp.Log, pruned...)
	return pruned, nil
}

// prune lists and deletes on st without releasing files, so callers can run
// it inside a wider transaction and release after commit.
func (rp *Retention) prune(ctx context.Context, st ports.DatasetStore, userID string) ([]model.Dataset, error) {
	all, err := st.ListDatasets(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	_, prune := SelectRetained(all, rp.MaxKept)
	for _, d := range prune {
		if err := st.DeleteDataset(ctx, userID, d.ID); err != nil {
			return nil, fmt.Errorf("delete dataset %s: %w", d.ID, err)
		}
	}
	if len(prune) > 0 {
		rp.Log.Info("Pruned datasets", "user_id", userID, "kept", len(all)-len(prune), "deleted", len(prune))
	}
	return prune, nil
}

// ReleaseArtifacts deletes the raw and report files of already-deleted datasets.
// Failures are logged; the records are gone either way.
func ReleaseArtifacts(ctx context.Context, files ports.FileStore, log *logger.Logger, datasets ...model.Dataset) {
	for _, d := range datasets {
		for _, key := range d.Artifacts() {
			if err := files.Delete(ctx, key); err != nil {
				log.Warn("Failed to release artifact", "dataset_id", d.ID, "key", key, "error", err)
			}
		}
	}
}
