package pipeline

import "go-equipment-analytics/internal/model"

// RequiredColumns must all be present, with exact case, in every upload.
var RequiredColumns = []string{
	"Equipment Name",
	"Type",
	model.FieldFlowrate,
	model.FieldPressure,
	model.FieldTemperature,
}

// NumericColumns are averaged by ComputeSummaryAnalytics.
var NumericColumns = []string{
	model.FieldFlowrate,
	model.FieldPressure,
	model.FieldTemperature,
}

const typeColumn = "Type"

// ValidateColumns checks the table header against RequiredColumns.
func ValidateColumns(t *Table) error {
	if missing := missingColumns(t, RequiredColumns); len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// missingColumns returns the absent names in their declared order.
func missingColumns(t *Table, required []string) []string {
	var missing []string
	for _, field := range required {
		if t.ColumnIndex(field) < 0 {
			missing = append(missing, field)
		}
	}
	return missing
}
