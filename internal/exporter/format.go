package exporter

import (
	"fmt"
	"strconv"
	"time"
)

// Layouts accepted by the export date formatters. Input is restricted to
// ISO 8601 forms; anything else is treated as unparseable and renders as an
// empty cell rather than an error.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDateForCSV normalizes a date string for CSV export.
// Empty or unparseable input yields "". On success it returns the UTC
// calendar date in YYYY-MM-DD form, so callers must not assume local
// timezone day boundaries.
func FormatDateForCSV(value string) string {
	t, ok := parseDate(value)
	if !ok {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

// FormatDateTimeForCSV normalizes a timestamp string for CSV export.
// Empty or unparseable input yields "". On success it returns
// "YYYY-MM-DD HH:MM:SS" (UTC, 24-hour, zero-padded) with any sub-second
// fraction truncated.
func FormatDateTimeForCSV(value string) string {
	t, ok := parseDate(value)
	if !ok {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}

func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// formatValue stringifies a record value in its canonical text form.
// nil always becomes the empty string, never the literal "nil".
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return formatBool(val)
	case int:
		return formatInt(int64(val))
	case int8:
		return formatInt(int64(val))
	case int16:
		return formatInt(int64(val))
	case int32:
		return formatInt(int64(val))
	case int64:
		return formatInt(val)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return formatFloat(val)
	case time.Time:
		return val.UTC().Format("2006-01-02 15:04:05")
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// formatFloat renders a float64 in its shortest exact decimal form, so
// 1000.5 stays "1000.5" and 42.0 becomes "42".
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
