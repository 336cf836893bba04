package exporter

import (
	"strings"
)

// Header pairs a record field key with the column label used in CSV output.
// A slice of headers both selects which fields are emitted and fixes their
// order. An empty Label falls back to the Key.
type Header struct {
	Key   string
	Label string
}

// Field is a single named value within a Record.
type Field struct {
	Key   string
	Value any
}

// Record is one row's worth of named scalar fields, in insertion order.
// Values may be strings, Go numeric types, bools, or nil. A nil value (or a
// key absent from the record) always serializes to an empty cell.
type Record []Field

// Get returns the value for key and whether the key is present.
func (r Record) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Headers derives header descriptors from the record's own keys, in
// insertion order, with label = key. Duplicate keys collapse to their first
// occurrence.
func (r Record) Headers() []Header {
	headers := make([]Header, 0, len(r))
	seen := make(map[string]bool, len(r))
	for _, f := range r {
		if seen[f.Key] {
			continue
		}
		seen[f.Key] = true
		headers = append(headers, Header{Key: f.Key, Label: f.Key})
	}
	return headers
}

// Strings flattens the record into one cell per header, in header order,
// using the same canonical value formatting as ConvertToCSV. The cells are
// unescaped; encoding/csv writers apply their own quoting.
func (r Record) Strings(headers []Header) []string {
	cells := make([]string, len(headers))
	for i, h := range headers {
		value, _ := r.Get(h.Key)
		cells[i] = formatValue(value)
	}
	return cells
}

// HeaderLabels extracts the column labels, falling back to keys.
func HeaderLabels(headers []Header) []string {
	labels := make([]string, len(headers))
	for i, h := range headers {
		labels[i] = h.Label
		if labels[i] == "" {
			labels[i] = h.Key
		}
	}
	return labels
}

// ConvertToCSV transforms records into CSV text with correct field escaping.
//
// The effective column list is headers when non-empty, otherwise the first
// record's keys in insertion order. Every row emits fields in exactly that
// order; keys missing from a record become empty cells. Rows are joined with
// a single LF and there is no trailing newline. An empty record slice yields
// the empty string, headers or not.
//
// The function is pure and total: it never returns an error and never
// panics over plain records.
func ConvertToCSV(records []Record, headers []Header) string {
	if len(records) == 0 {
		return ""
	}
	if len(headers) == 0 {
		headers = records[0].Headers()
	}

	var b strings.Builder
	cells := make([]string, len(headers))

	for i, h := range headers {
		label := h.Label
		if label == "" {
			label = h.Key
		}
		cells[i] = escapeField(label)
	}
	b.WriteString(strings.Join(cells, ","))

	for _, record := range records {
		for i, h := range headers {
			value, _ := record.Get(h.Key)
			cells[i] = escapeField(formatValue(value))
		}
		b.WriteByte('\n')
		b.WriteString(strings.Join(cells, ","))
	}

	return b.String()
}

// escapeField applies RFC 4180 quoting: a field containing a comma, a double
// quote, or a newline is wrapped in double quotes with every interior quote
// doubled. Anything else passes through bare.
func escapeField(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
