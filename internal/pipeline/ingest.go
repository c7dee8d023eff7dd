package pipeline

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ------------------- CSV Ingestion -------------------

// ParseCSV reads a header row followed by data rows. Short rows are padded with
// empty (missing) cells; rows longer than the header are a ParseError.
func ParseCSV(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	csvReader := csv.NewReader(br)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Err: errors.New("No columns to parse from file")}
	}
	if err != nil {
		return nil, wrapCSVError(err)
	}

	t := &Table{Columns: uniqueHeaders(headers)}
	ncol := len(t.Columns)

	for {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapCSVError(err)
		}
		if len(record) > ncol {
			line, _ := csvReader.FieldPos(0)
			return nil, &ParseError{Line: line, Err: fmt.Errorf("expected %d fields, saw %d", ncol, len(record))}
		}
		row := make([]string, ncol)
		copy(row, record)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// uniqueHeaders trims header names, names blank ones "Unnamed: <index>" and
// renames repeats to name.1, name.2, ... so the first occurrence keeps the plain name.
func uniqueHeaders(headers []string) []string {
	out := make([]string, len(headers))
	used := make(map[string]bool, len(headers))
	repeats := make(map[string]int, len(headers))
	for i, h := range headers {
		base := strings.TrimSpace(h)
		if base == "" {
			base = "Unnamed: " + strconv.Itoa(i)
		}
		name := base
		for used[name] {
			repeats[base]++
			name = base + "." + strconv.Itoa(repeats[base])
		}
		used[name] = true
		out[i] = name
	}
	return out
}

func wrapCSVError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Err: pe.Err}
	}
	return &ParseError{Err: fmt.Errorf("read csv: %w", err)}
}
