package pipeline

import (
	"go-equipment-analytics/internal/model"
	"go-equipment-analytics/pkg/utils"
)

const unknownType = "Unknown"

// ComputeSummaryAnalytics validates the header and aggregates the table into
// a row count, per-field averages and the equipment type distribution.
func ComputeSummaryAnalytics(t *Table) (model.AnalyticsResult, error) {
	if err := ValidateColumns(t); err != nil {
		return model.AnalyticsResult{}, err
	}

	result := model.AnalyticsResult{
		TotalCount:       len(t.Rows),
		Averages:         make(map[string]model.OptionalFloat, len(NumericColumns)),
		TypeDistribution: make(map[string]int),
	}

	for _, field := range NumericColumns {
		cells, _ := t.Column(field)
		result.Averages[field] = mean(cells)
	}

	types, _ := t.Column(typeColumn)
	for _, v := range types {
		label := v
		if utils.IsNA(v) {
			label = unknownType
		}
		result.TypeDistribution[label]++
	}

	return result, nil
}

// mean averages the cells that coerce to numbers; absent when none do.
func mean(cells []string) model.OptionalFloat {
	var sum float64
	n := 0
	for _, c := range cells {
		if v, ok := utils.CoerceFloat(c).Get(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return model.Absent()
	}
	return model.Number(sum / float64(n))
}
