package pipeline

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampPreviewLimit(t *testing.T) {
	assert.Equal(t, 1, ClampPreviewLimit(-10))
	assert.Equal(t, 1, ClampPreviewLimit(0))
	assert.Equal(t, 50, ClampPreviewLimit(50))
	assert.Equal(t, 500, ClampPreviewLimit(501))
}

func TestPreviewRows_LimitAndOrder(t *testing.T) {
	tbl := mustParse(t, sampleCSV)
	p := PreviewRows(tbl, 1)
	assert.Equal(t, 1, p.Limit)
	assert.Equal(t, 1, p.Returned)
	require.Len(t, p.Rows, 1)
	assert.Equal(t, map[string]any{
		"Equipment Name": "Pump A",
		"Type":           "Pump",
		"Flowrate":       int64(10),
		"Pressure":       int64(3),
		"Temperature":    int64(40),
	}, p.Rows[0])
	assert.Equal(t, tbl.Columns, p.Columns)

	all := PreviewRows(tbl, 1000)
	assert.Equal(t, 500, all.Limit)
	assert.Equal(t, 2, all.Returned)
	assert.Equal(t, "Reactor 1", all.Rows[1]["Equipment Name"])
}

func TestPreviewRows_NullsAndKinds(t *testing.T) {
	tbl := mustParse(t, "a,b,c,d\n1,2.5,x,\nNaN,3,,\n")
	p := PreviewRows(tbl, 10)
	require.Len(t, p.Rows, 2)

	assert.Equal(t, int64(1), p.Rows[0]["a"])
	assert.Nil(t, p.Rows[1]["a"])
	assert.Equal(t, 2.5, p.Rows[0]["b"])
	assert.Equal(t, float64(3), p.Rows[1]["b"])
	assert.Equal(t, "x", p.Rows[0]["c"])
	assert.Nil(t, p.Rows[1]["c"])
	for _, row := range p.Rows {
		v, ok := row["d"]
		assert.True(t, ok, "every column key must be present")
		assert.Nil(t, v)
	}
}

func TestPreviewRows_NeverExceedsBounds(t *testing.T) {
	var b strings.Builder
	b.WriteString("n\n")
	for i := 0; i < 600; i++ {
		fmt.Fprintf(&b, "%d\n", i)
	}
	tbl := mustParse(t, b.String())
	for _, limit := range []int{-5, 0, 1, 7, 499, 500, 501, 10000} {
		p := PreviewRows(tbl, limit)
		want := min(500, max(1, limit), len(tbl.Rows))
		assert.Equal(t, want, p.Returned, "limit %d", limit)
		assert.Equal(t, int64(0), p.Rows[0]["n"])
	}
	assert.Len(t, tbl.Rows, 600)
}
