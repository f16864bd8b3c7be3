package history

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the on-disk timestamp format (local time, microseconds).
const TimestampLayout = "2006-01-02 15:04:05.000000"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp accepts TimestampLayout with any (or no) fractional part,
// and RFC 3339. Zone-less values are read as local time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	// Parsing accepts a fractional second even though the layout has none.
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// FormatFloat renders f the way the history file has always stored numbers:
// shortest round-trip digits, a trailing ".0" on integral values, exponent
// form outside [1e-4, 1e16), and inf/-inf/nan for non-finite values.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ParseFloat is the inverse of FormatFloat. It also accepts any literal
// strconv.ParseFloat does.
func ParseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// FormatOperands renders an operand pair as a tuple literal: "(2.0, 3.0)".
func FormatOperands(ops [2]float64) string {
	return "(" + FormatFloat(ops[0]) + ", " + FormatFloat(ops[1]) + ")"
}

// ParseOperands parses a tuple literal written by FormatOperands.
func ParseOperands(s string) ([2]float64, error) {
	var ops [2]float64

	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return ops, fmt.Errorf("operands %q: expected a parenthesised pair", s)
	}

	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 2 {
		return ops, fmt.Errorf("operands %q: expected 2 values, got %d", s, len(parts))
	}

	for i, p := range parts {
		v, err := ParseFloat(p)
		if err != nil {
			return ops, fmt.Errorf("operands %q: value %d: %w", s, i+1, err)
		}
		ops[i] = v
	}
	return ops, nil
}
