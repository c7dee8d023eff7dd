package pipeline

import (
	"go-equipment-analytics/internal/model"
	"go-equipment-analytics/pkg/utils"
)

const (
	MinPreviewLimit = 1
	MaxPreviewLimit = 500
)

// columnKind is the JSON type a column's cells are converted to.
type columnKind int

const (
	kindText columnKind = iota
	kindInt
	kindFloat
)

// ClampPreviewLimit forces a requested row limit into [1, 500].
func ClampPreviewLimit(limit int) int {
	return utils.Clamp(limit, MinPreviewLimit, MaxPreviewLimit)
}

// PreviewRows returns the first rows of t as JSON-ready maps. Missing cells
// are nil; numeric columns become int64 or float64. t is not modified.
func PreviewRows(t *Table, limit int) model.Preview {
	limit = ClampPreviewLimit(limit)
	n := min(limit, len(t.Rows))

	columns := make([]string, len(t.Columns))
	copy(columns, t.Columns)

	kinds := make([]columnKind, len(t.Columns))
	for i := range t.Columns {
		kinds[i] = inferKind(t, i)
	}

	rows := make([]map[string]any, 0, n)
	for _, row := range t.Rows[:n] {
		rec := make(map[string]any, len(columns))
		for i, col := range columns {
			rec[col] = convertCell(row[i], kinds[i])
		}
		rows = append(rows, rec)
	}

	return model.Preview{
		Columns:  columns,
		Rows:     rows,
		Limit:    limit,
		Returned: len(rows),
	}
}

// inferKind looks at every non-missing cell of column idx, the way a dataframe
// reader settles on one dtype per column.
func inferKind(t *Table, idx int) columnKind {
	kind := kindInt
	seen := false
	for _, row := range t.Rows {
		switch utils.ParseValue(row[idx]).(type) {
		case nil:
			continue
		case int64:
			seen = true
		case float64:
			seen = true
			kind = kindFloat
		default:
			return kindText
		}
	}
	if !seen {
		return kindText
	}
	return kind
}

func convertCell(raw string, kind columnKind) any {
	v := utils.ParseValue(raw)
	if v == nil {
		return nil
	}
	switch kind {
	case kindInt:
		return v
	case kindFloat:
		if i, ok := v.(int64); ok {
			return float64(i)
		}
		return v
	default:
		return raw
	}
}
