// Package scrub range-checks user input, replacing invalid values with
// defaults.
package scrub

import (
	"strings"
	"time"

	"github.com/relvacode/iso8601"
)

const (
	MinTempF = -100.0
	MaxTempF = 250.0
)

// PositiveInt returns x if it is at least min, else def.
func PositiveInt(x, min, def int) (int, bool) {
	if x < min {
		return def, false
	}
	return x, true
}

// Proportion returns x if it lies in [0, 1), else def.
func Proportion(x, def float64) (float64, bool) {
	if !(x >= 0 && x < 1) {
		return def, false
	}
	return x, true
}

// TempF returns x if it lies in [MinTempF, MaxTempF], else def.
func TempF(x, def float64) (float64, bool) {
	if !(x >= MinTempF && x <= MaxTempF) {
		return def, false
	}
	return x, true
}

// Date parses an ISO 8601 date or date-time. Bare dates start at midnight.
// Values without a zone are taken as UTC.
func Date(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) == len("2006-01-02") {
		s += "T00:00:00"
	}
	t, err := iso8601.ParseString(s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// DateOr parses s, falling back to def when s is not a valid date.
func DateOr(s, def string) (time.Time, bool) {
	if t, err := Date(s); err == nil {
		return t, true
	}
	t, _ := Date(def)
	return t, false
}
