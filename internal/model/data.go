package model

import (
	"bytes"
	"encoding/json"
	"math"
)

// Numeric fields averaged by the analytics engine, in report order.
const (
	FieldFlowrate    = "Flowrate"
	FieldPressure    = "Pressure"
	FieldTemperature = "Temperature"
)

// OptionalFloat is either a number or an explicit absent marker.
// The zero value is absent.
type OptionalFloat struct {
	value   float64
	present bool
}

// Number wraps a present value.
func Number(v float64) OptionalFloat { return OptionalFloat{value: v, present: true} }

// Absent returns the absent marker.
func Absent() OptionalFloat { return OptionalFloat{} }

// Get returns the value and whether it is present.
func (o OptionalFloat) Get() (float64, bool) { return o.value, o.present }

// IsAbsent reports whether o carries no value.
func (o OptionalFloat) IsAbsent() bool { return !o.present }

func (o OptionalFloat) MarshalJSON() ([]byte, error) {
	if !o.present || math.IsNaN(o.value) || math.IsInf(o.value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *OptionalFloat) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*o = Absent()
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*o = Number(v)
	return nil
}

// AnalyticsResult is the structured payload persisted for each summary
type AnalyticsResult struct {
	TotalCount       int                      `json:"total_count"`
	Averages         map[string]OptionalFloat `json:"averages"`
	TypeDistribution map[string]int           `json:"type_distribution"`
}

// Average returns the average for field, absent when missing from the payload.
func (r AnalyticsResult) Average(field string) OptionalFloat {
	if r.Averages == nil {
		return Absent()
	}
	return r.Averages[field]
}
