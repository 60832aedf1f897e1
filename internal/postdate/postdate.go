// Package postdate parses and formats the YYYY-MM-DD dates carried by posts.
package postdate

import (
	"strconv"
	"strings"
	"time"
)

const (
	NotAvailable = "Date not available"
	Invalid      = "Invalid Date"

	// DisplayLayout renders dates in long form, e.g. "January 5, 2024".
	DisplayLayout = "January 2, 2006"
)

// Parse converts a YYYY-MM-DD string into midnight UTC of that day.
// It reports false for anything that is not exactly three integer
// components forming a real calendar date.
func Parse(s string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	var fields [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return time.Time{}, false
		}
		fields[i] = n
	}

	year, month, day := fields[0], fields[1], fields[2]
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 -> Mar 2); reject it.
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// Valid reports whether s parses.
func Valid(s string) bool {
	_, ok := Parse(s)
	return ok
}

// Format renders s for display.
func Format(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	t, ok := Parse(s)
	if !ok {
		return Invalid
	}
	return t.Format(DisplayLayout)
}

// Compare orders two parsed dates ascending. Unparsable dates are reported
// through the ok flags so callers can place them explicitly.
func Compare(a, b string) (cmp int, aOK, bOK bool) {
	ta, aOK := Parse(a)
	tb, bOK := Parse(b)
	if aOK && bOK {
		cmp = ta.Compare(tb)
	}
	return cmp, aOK, bOK
}
