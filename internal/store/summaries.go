package store

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"go-equipment-analytics/internal/model"
)

// CreateSummary stores the analytics payload as an opaque JSON document.
func (s *Store) CreateSummary(ctx context.Context, sum *model.Summary) error {
	if sum.ID == "" {
		sum.ID = uuid.New().String()
	}
	if sum.GeneratedAt.IsZero() {
		sum.GeneratedAt = s.timestamp()
	}
	payload, err := json.Marshal(sum.Analytics)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	_, err = s.exec(ctx, s.sb.Insert("dataset_summaries").
		Columns("id", "dataset_id", "user_id", "summary_json", "generated_at").
		Values(sum.ID, sum.DatasetID, sum.UserID, string(payload), sum.GeneratedAt))
	if err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}
	return nil
}

// LatestSummary returns the most recently generated summary of a dataset.
func (s *Store) LatestSummary(ctx context.Context, datasetID string) (model.Summary, error) {
	var (
		sum     model.Summary
		payload []byte
	)
	err := s.queryRow(ctx, s.sb.Select("id", "dataset_id", "user_id", "summary_json", "generated_at").
		From("dataset_summaries").
		Where(sq.Eq{"dataset_id": datasetID}).
		OrderBy("generated_at DESC", "id DESC").
		Limit(1)).
		Scan(&sum.ID, &sum.DatasetID, &sum.UserID, &payload, &sum.GeneratedAt)
	if err != nil {
		return model.Summary{}, notFound(err)
	}
	if err := json.Unmarshal(payload, &sum.Analytics); err != nil {
		return model.Summary{}, fmt.Errorf("decode summary %s: %w", sum.ID, err)
	}
	sum.GeneratedAt = sum.GeneratedAt.UTC()
	return sum, nil
}
