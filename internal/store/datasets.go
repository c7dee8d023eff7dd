package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"go-equipment-analytics/internal/model"
	"go-equipment-analytics/internal/ports"
)

var datasetColumns = []string{
	"id", "user_id", "filename", "status", "row_count", "column_count",
	"created_at", "last_error", "file_key", "report_key",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDataset(r rowScanner) (model.Dataset, error) {
	var (
		d          model.Dataset
		status     string
		rows, cols sql.NullInt64
	)
	if err := r.Scan(&d.ID, &d.UserID, &d.Filename, &status, &rows, &cols,
		&d.CreatedAt, &d.LastError, &d.FileKey, &d.ReportKey); err != nil {
		return model.Dataset{}, err
	}
	d.Status = model.Status(status)
	d.CreatedAt = d.CreatedAt.UTC()
	if rows.Valid {
		n := int(rows.Int64)
		d.RowCount = &n
	}
	if cols.Valid {
		n := int(cols.Int64)
		d.ColumnCount = &n
	}
	return d, nil
}

func nullableInt(p *int) any {
	if p == nil {
		return nil
	}
	return int64(*p)
}

// CreateDataset inserts d, assigning an ID and CreatedAt when they are unset.
func (s *Store) CreateDataset(ctx context.Context, d *model.Dataset) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = s.timestamp()
	}
	if d.Status == "" {
		d.Status = model.StatusUploaded
	}
	_, err := s.exec(ctx, s.sb.Insert("datasets").
		Columns(datasetColumns...).
		Values(d.ID, d.UserID, d.Filename, string(d.Status), nullableInt(d.RowCount), nullableInt(d.ColumnCount),
			d.CreatedAt, d.LastError, d.FileKey, d.ReportKey))
	if err != nil {
		return fmt.Errorf("insert dataset: %w", err)
	}
	return nil
}

// MarkReady settles a dataset as ready with its dimensions and clears last_error.
func (s *Store) MarkReady(ctx context.Context, id string, rows, cols int) error {
	return s.settle(ctx, id, sq.Eq{
		"status":       string(model.StatusReady),
		"row_count":    int64(rows),
		"column_count": int64(cols),
		"last_error":   "",
	})
}

// MarkError settles a dataset as failed. Dimensions are cleared.
func (s *Store) MarkError(ctx context.Context, id, msg string) error {
	return s.settle(ctx, id, sq.Eq{
		"status":       string(model.StatusError),
		"row_count":    nil,
		"column_count": nil,
		"last_error":   msg,
	})
}

// settle applies a terminal transition. Already settled datasets are left
// untouched and reported with ErrSettled.
func (s *Store) settle(ctx context.Context, id string, set map[string]any) error {
	n, err := s.exec(ctx, s.sb.Update("datasets").
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Where(sq.NotEq{"status": []string{string(model.StatusReady), string(model.StatusError)}}))
	if err != nil {
		return fmt.Errorf("update dataset %s: %w", id, err)
	}
	if n > 0 {
		return nil
	}
	var status string
	if err := s.queryRow(ctx, s.sb.Select("status").From("datasets").Where(sq.Eq{"id": id})).Scan(&status); err != nil {
		return notFound(err)
	}
	if !model.Status(status).Terminal() {
		return fmt.Errorf("dataset %s in status %s was not updated", id, status)
	}
	return fmt.Errorf("dataset %s is %s: %w", id, status, ErrSettled)
}

func (s *Store) SetReportKey(ctx context.Context, id, key string) error {
	n, err := s.exec(ctx, s.sb.Update("datasets").Set("report_key", key).Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("update report key: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetDataset returns the dataset only when it belongs to userID.
func (s *Store) GetDataset(ctx context.Context, userID, id string) (model.Dataset, error) {
	d, err := scanDataset(s.queryRow(ctx, s.sb.Select(datasetColumns...).From("datasets").
		Where(sq.Eq{"id": id, "user_id": userID})))
	if err != nil {
		return model.Dataset{}, notFound(err)
	}
	return d, nil
}

func (s *Store) ListDatasets(ctx context.Context, userID string, limit int) ([]model.Dataset, error) {
	b := s.sb.Select(datasetColumns...).From("datasets").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	out := []model.Dataset{}
	for rows.Next() {
		d, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteDataset removes the dataset and its summaries in one transaction.
func (s *Store) DeleteDataset(ctx context.Context, userID, id string) error {
	return s.InTx(ctx, func(tx ports.DatasetStore) error {
		txs := tx.(*Store)
		if _, err := txs.GetDataset(ctx, userID, id); err != nil {
			return err
		}
		if _, err := txs.exec(ctx, txs.sb.Delete("dataset_summaries").Where(sq.Eq{"dataset_id": id})); err != nil {
			return fmt.Errorf("delete summaries: %w", err)
		}
		n, err := txs.exec(ctx, txs.sb.Delete("datasets").Where(sq.Eq{"id": id, "user_id": userID}))
		if err != nil {
			return fmt.Errorf("delete dataset: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}
