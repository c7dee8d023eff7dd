package report

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// TypeCount is one entry of an equipment type distribution.
type TypeCount struct {
	Label string
	Count int
}

// SortedDistribution orders a distribution by count descending, then label ascending.
func SortedDistribution(dist map[string]int) []TypeCount {
	out := make([]TypeCount, 0, len(dist))
	for label, n := range dist {
		out = append(out, TypeCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// formatFloat prints a float the way users of the original reports saw it:
// integral values keep one decimal ("80.0"), very large or small values use
// an exponent.
func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
