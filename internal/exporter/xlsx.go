package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// XLSXWriter writes export data as Excel workbooks for spreadsheet-first
// consumers. It shares the header/record shape with ConvertToCSV.
type XLSXWriter struct {
	sheet string
}

// NewXLSXWriter creates an Excel writer. The sheet name defaults to "Export"
// when empty.
func NewXLSXWriter(sheet string) *XLSXWriter {
	if sheet == "" {
		sheet = "Export"
	}
	return &XLSXWriter{sheet: sheet}
}

// Write renders records into an xlsx workbook at fullPath. Column selection
// and order follow the same rules as ConvertToCSV: explicit headers win,
// otherwise the first record's keys are used. Empty input produces a
// workbook with an empty sheet.
func (w *XLSXWriter) Write(fullPath string, records []Record, headers []Header) error {
	slog.Info("Writing XLSX file",
		slog.String("path", fullPath),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := w.build(records, headers)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteBuffer renders records into an xlsx workbook in memory, for callers
// that stream the bytes instead of touching the filesystem.
func (w *XLSXWriter) WriteBuffer(records []Record, headers []Header) ([]byte, error) {
	f, err := w.build(records, headers)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *XLSXWriter) build(records []Record, headers []Header) (*excelize.File, error) {
	if len(headers) == 0 && len(records) > 0 {
		headers = records[0].Headers()
	}

	f := excelize.NewFile()

	index, err := f.NewSheet(w.sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if w.sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	if len(records) > 0 {
		row := make([]interface{}, len(headers))
		for i, h := range headers {
			label := h.Label
			if label == "" {
				label = h.Key
			}
			row[i] = label
		}
		if err := w.setRow(f, 1, row); err != nil {
			f.Close()
			return nil, err
		}

		for n, record := range records {
			for i, h := range headers {
				value, _ := record.Get(h.Key)
				if value == nil {
					row[i] = ""
				} else {
					row[i] = value
				}
			}
			if err := w.setRow(f, n+2, row); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	return f, nil
}

func (w *XLSXWriter) setRow(f *excelize.File, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to compute cell name: %w", err)
	}
	if err := f.SetSheetRow(w.sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
