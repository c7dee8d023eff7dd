package pipeline

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-equipment-analytics/internal/model"
)

func mustParse(t *testing.T, csv string) *Table {
	t.Helper()
	tbl, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	return tbl
}

func assertAverage(t *testing.T, r model.AnalyticsResult, field string, want float64) {
	t.Helper()
	v, ok := r.Average(field).Get()
	require.True(t, ok, "average of %s should be present", field)
	assert.InDelta(t, want, v, 1e-9)
}

func TestComputeSummaryAnalytics_Sample(t *testing.T) {
	r, err := ComputeSummaryAnalytics(mustParse(t, sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, r.TotalCount)
	assertAverage(t, r, model.FieldFlowrate, 7.5)
	assertAverage(t, r, model.FieldPressure, 4.5)
	assertAverage(t, r, model.FieldTemperature, 80.0)
	assert.Equal(t, map[string]int{"Pump": 1, "Reactor": 1}, r.TypeDistribution)
}

func TestComputeSummaryAnalytics_MissingColumns(t *testing.T) {
	cases := []struct {
		header  string
		missing []string
	}{
		{"Equipment Name,Type,Flowrate,Pressure", []string{"Temperature"}},
		{"Type,Pressure", []string{"Equipment Name", "Flowrate", "Temperature"}},
		{"equipment name,type,flowrate,pressure,temperature", RequiredColumns},
	}
	for _, tc := range cases {
		_, err := ComputeSummaryAnalytics(mustParse(t, tc.header+"\n"))
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, tc.header)
		assert.Equal(t, tc.missing, ve.Missing)
		assert.Equal(t, "Missing required columns: "+strings.Join(tc.missing, ", "), err.Error())
	}
}

func TestComputeSummaryAnalytics_MissingValues(t *testing.T) {
	csv := "Equipment Name,Type,Flowrate,Pressure,Temperature\n" +
		"A,Pump,abc,,inf\n" +
		"B,,4,NaN,\n" +
		"C,NA,8,n/a,NULL\n" +
		"D,Pump, 6 ,x,-\n"
	r, err := ComputeSummaryAnalytics(mustParse(t, csv))
	require.NoError(t, err)

	assert.Equal(t, 4, r.TotalCount)
	assertAverage(t, r, model.FieldFlowrate, 6)
	assert.True(t, r.Average(model.FieldPressure).IsAbsent())
	assert.True(t, r.Average(model.FieldTemperature).IsAbsent())
	assert.Equal(t, map[string]int{"Pump": 2, "Unknown": 2}, r.TypeDistribution)

	sum := 0
	for _, n := range r.TypeDistribution {
		sum += n
	}
	assert.Equal(t, r.TotalCount, sum)

	payload, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"total_count": 4,
		"averages": {"Flowrate": 6, "Pressure": null, "Temperature": null},
		"type_distribution": {"Pump": 2, "Unknown": 2}
	}`, string(payload))
}

func TestComputeSummaryAnalytics_EmptyTable(t *testing.T) {
	r, err := ComputeSummaryAnalytics(mustParse(t, "Equipment Name,Type,Flowrate,Pressure,Temperature\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, r.TotalCount)
	assert.Empty(t, r.TypeDistribution)
	for _, f := range NumericColumns {
		assert.True(t, r.Average(f).IsAbsent(), f)
	}
}

func TestComputeSummaryAnalytics_Deterministic(t *testing.T) {
	tbl := mustParse(t, sampleCSV)
	a, err := ComputeSummaryAnalytics(tbl)
	require.NoError(t, err)
	b, err := ComputeSummaryAnalytics(tbl)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
