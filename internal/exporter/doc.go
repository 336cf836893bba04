// Package exporter provides CSV and Excel export functionality for the
// Fleet Admin dashboard.
//
// This package contains three main components:
//
// ConvertToCSV: Pure conversion of uniform key/value records into RFC 4180
// style CSV text, with header descriptors controlling column selection,
// order and labels.
//
// Sink: A narrow persistence boundary for export output. FileSink writes the
// exact byte sequence to a directory with an optional UTF-8 BOM prefix for
// Excel compatibility; HTTP download handlers implement the same contract at
// the transport layer.
//
// CSVWriter / XLSXWriter: File-level writers over pre-stringified rows for
// the bulk export CLI, including a streaming CSV variant for large datasets.
//
// Example usage:
//
//	records := []exporter.Record{
//		{{Key: "name", Value: "John"}, {Key: "email", Value: nil}},
//	}
//	csv := exporter.ConvertToCSV(records, nil)
//
//	sink := exporter.NewFileSink(dir, true)
//	err := sink.Save(ctx, "users_2024-11-16", []byte(csv))
package exporter
