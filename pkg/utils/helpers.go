package utils

import (
	"math"
	"strconv"
	"strings"
	"time"

	"go-equipment-analytics/internal/model"
)

// naTokens are the cell values read as missing, matching common dataframe readers.
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// ParseDuration safely parses duration string like "5m", falling back to def
func ParseDuration(d string, def time.Duration) time.Duration {
	if d == "" {
		return def
	}
	duration, err := time.ParseDuration(d)
	if err != nil {
		return def
	}
	return duration
}

// IsNA reports whether a raw cell is a missing value.
func IsNA(s string) bool {
	_, ok := naTokens[strings.TrimSpace(s)]
	return ok
}

// CoerceFloat converts a raw cell to a number. Missing, unparsable and
// non-finite cells are absent.
func CoerceFloat(s string) model.OptionalFloat {
	if IsNA(s) {
		return model.Absent()
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return model.Absent()
	}
	return model.Number(f)
}

// ParseValue returns the cell as int64, finite float64 or the original string.
// Missing cells become nil.
func ParseValue(s string) interface{} {
	if IsNA(s) {
		return nil
	}
	t := strings.TrimSpace(s)

	// try int
	if i, err := strconv.ParseInt(t, 10, 64); err == nil {
		return i
	}
	// try float
	if f, err := strconv.ParseFloat(t, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}

// Clamp forces v into [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AtoiDefault parses s as an int, returning def when s is not numeric.
func AtoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
