package exporter

import (
	"strconv"
	"strings"
)

// formatPercent prints an already rounded percentage in its shortest form
// with at least one fractional digit: 50 -> "50.0", 66.67 -> "66.67".
func formatPercent(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// formatRating prints a rating as received: 1523.456 -> "1523.456", 1500 -> "1500".
func formatRating(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatOptionalInt leaves the cell empty when the value is absent
func formatOptionalInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

// formatInt64 formats an int64 value for CSV output
func formatInt64(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatTags joins topic tags for a single cell
func formatTags(tags []string) string {
	return strings.Join(tags, ", ")
}
