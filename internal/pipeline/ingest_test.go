package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "Equipment Name,Type,Flowrate,Pressure,Temperature\n" +
	"Pump A,Pump,10,3,40\n" +
	"Reactor 1,Reactor,5,6,120\n"

func TestParseCSV(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, []string{"Equipment Name", "Type", "Flowrate", "Pressure", "Temperature"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"Pump A", "Pump", "10", "3", "40"}, tbl.Rows[0])
}

func TestParseCSV_BOMAndHeaderTrim(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader("\xEF\xBB\xBF Equipment Name , Type\nP,Pump\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Equipment Name", "Type"}, tbl.Columns)
}

func TestParseCSV_DuplicateHeaders(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader("Type,Type,Type,Type.1\na,b,c,d\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Type", "Type.1", "Type.2", "Type.1.1"}, tbl.Columns)
}

func TestParseCSV_BlankHeadersNamedByPosition(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader(" ,a,,\n1,2,3,4\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Unnamed: 0", "a", "Unnamed: 2", "Unnamed: 3"}, tbl.Columns)
}

func TestParseCSV_ShortRowsPadded(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader("a,b,c\n1\n\n2,3\n"))
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"1", "", ""}, tbl.Rows[0])
	assert.Equal(t, []string{"2", "3", ""}, tbl.Rows[1])
}

func TestParseCSV_Errors(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "No columns to parse from file", err.Error())

	_, err = ParseCSV(strings.NewReader("a,b\n1,2\n1,2,3\n"))
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 3, pe.Line)
	assert.Contains(t, err.Error(), "Error tokenizing data")
	assert.Contains(t, err.Error(), "expected 2 fields, saw 3")

	var ve *ValidationError
	assert.False(t, errors.As(err, &ve))
}
