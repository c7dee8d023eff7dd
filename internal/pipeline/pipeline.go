package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-equipment-analytics/internal/model"
	"go-equipment-analytics/internal/ports"
	"go-equipment-analytics/internal/storage"
	"go-equipment-analytics/pkg/logger"
)

const defaultFilename = "dataset.csv"

// IngestResult is the outcome of one upload.
type IngestResult struct {
	Dataset model.Dataset
	Summary *model.Summary // nil when processing failed
	Pruned  []model.Dataset
}

// Ingestor runs an upload start to finish: store the raw file, record the
// dataset, compute analytics, settle the status and apply retention.
type Ingestor struct {
	store     ports.DatasetStore
	files     ports.FileStore
	retention *Retention
	log       *logger.Logger
}

func NewIngestor(st ports.DatasetStore, files ports.FileStore, retention *Retention, log *logger.Logger) *Ingestor {
	return &Ingestor{
		store:     st,
		files:     files,
		retention: retention,
		log:       log.With("component", "ingestor"),
	}
}

// ------------------- Pipeline Runner -------------------

// Ingest processes one uploaded file for userID. A *ValidationError or
// *ParseError is returned together with the dataset, which is then in the
// error state; any other error means the upload was not recorded.
func (in *Ingestor) Ingest(ctx context.Context, userID, filename string, body io.Reader) (IngestResult, error) {
	tracker := newIngestTracker(time.Now)
	id := uuid.New().String()
	name := cleanFilename(filename)
	key := storage.DatasetKey(time.Now().UTC(), id, name)

	tracker.StartStage(StageStore)
	if err := in.files.Put(ctx, key, body); err != nil {
		tracker.FailStage()
		return IngestResult{}, fmt.Errorf("store upload: %w", err)
	}
	tracker.EndStage(0)

	d := model.Dataset{
		ID:       id,
		UserID:   userID,
		Filename: name,
		Status:   model.StatusProcessing,
		FileKey:  key,
	}
	if err := in.store.CreateDataset(ctx, &d); err != nil {
		ReleaseArtifacts(context.WithoutCancel(ctx), in.files, in.log, d)
		return IngestResult{}, fmt.Errorf("create dataset: %w", err)
	}
	in.log.Info("Dataset created", "dataset_id", d.ID, "user_id", userID, "filename", name)

	table, analytics, procErr := in.process(ctx, key, tracker)

	// Once the row exists it must settle even if the caller has gone away.
	finalCtx := context.WithoutCancel(ctx)

	tracker.StartStage(StageFinalize)
	var summary *model.Summary
	var pruned []model.Dataset
	err := in.store.InTx(finalCtx, func(tx ports.DatasetStore) error {
		if procErr != nil {
			if err := tx.MarkError(finalCtx, d.ID, procErr.Error()); err != nil {
				return err
			}
		} else {
			if err := tx.MarkReady(finalCtx, d.ID, len(table.Rows), len(table.Columns)); err != nil {
				return err
			}
			s := &model.Summary{
				ID:        uuid.New().String(),
				DatasetID: d.ID,
				UserID:    userID,
				Analytics: analytics,
			}
			if err := tx.CreateSummary(finalCtx, s); err != nil {
				return err
			}
			summary = s
		}

		var err error
		pruned, err = in.retention.prune(finalCtx, tx, userID)
		return err
	})
	if err != nil {
		tracker.FailStage()
		in.markFailed(finalCtx, d.ID, err)
		return IngestResult{}, fmt.Errorf("finalize dataset %s: %w", d.ID, err)
	}
	tracker.EndStage(len(pruned))
	ReleaseArtifacts(finalCtx, in.files, in.log, pruned...)

	if procErr != nil {
		d.Status = model.StatusError
		d.LastError = procErr.Error()
		in.log.Warn("Dataset processing failed", append([]interface{}{"dataset_id", d.ID, "error", procErr}, tracker.LogFields()...)...)
	} else {
		rows, cols := len(table.Rows), len(table.Columns)
		d.Status = model.StatusReady
		d.RowCount, d.ColumnCount = &rows, &cols
		d.LastError = ""
		in.log.Info("Dataset ready", append([]interface{}{"dataset_id", d.ID, "rows", rows, "columns", cols}, tracker.LogFields()...)...)
	}

	return IngestResult{Dataset: d, Summary: summary, Pruned: pruned}, procErr
}

// markFailed settles a dataset whose finalize transaction did not commit, so
// it never stays in processing.
func (in *Ingestor) markFailed(ctx context.Context, id string, cause error) {
	err := in.store.MarkError(ctx, id, fmt.Sprintf("finalize failed: %v", cause))
	if err != nil && !errors.Is(err, ports.ErrSettled) {
		in.log.Error("Failed to mark dataset as failed", "dataset_id", id, "error", err)
	}
}

// process re-reads the stored file so the analytics see exactly what was persisted.
func (in *Ingestor) process(ctx context.Context, key string, tracker *IngestTracker) (*Table, model.AnalyticsResult, error) {
	tracker.StartStage(StageParse)
	t, err := LoadTable(ctx, in.files, key)
	if err != nil {
		tracker.FailStage()
		return nil, model.AnalyticsResult{}, err
	}
	tracker.EndStage(len(t.Rows))

	tracker.StartStage(StageAnalyze)
	analytics, err := ComputeSummaryAnalytics(t)
	if err != nil {
		tracker.FailStage()
		return nil, model.AnalyticsResult{}, err
	}
	tracker.EndStage(len(t.Rows))
	return t, analytics, nil
}

// LoadTable opens a stored CSV and parses it. Unreadable files are a ParseError.
func LoadTable(ctx context.Context, files ports.FileStore, key string) (*Table, error) {
	rc, err := files.Open(ctx, key)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("open stored file: %w", err)}
	}
	defer rc.Close()
	return ParseCSV(rc)
}

func cleanFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if name == "" || name == "." || name == "/" {
		return defaultFilename
	}
	return name
}
