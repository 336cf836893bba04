package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// utf8BOM is prepended at the persistence boundary so spreadsheet tools
// detect UTF-8 encoding. The converter itself never emits it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Sink persists export output. Implementations must write exactly the given
// byte sequence (plus any boundary-level BOM) under baseName + ".csv" and
// release every transient resource they acquire, on failure included.
type Sink interface {
	Save(ctx context.Context, baseName string, data []byte) error
}

// FileSink writes exports into a directory on the local filesystem.
type FileSink struct {
	dir       string
	bomPrefix bool
}

// NewFileSink creates a sink rooted at dir. When bomPrefix is set, saved
// files start with a UTF-8 BOM for Excel compatibility.
func NewFileSink(dir string, bomPrefix bool) *FileSink {
	return &FileSink{dir: dir, bomPrefix: bomPrefix}
}

// Save writes data to <dir>/<baseName>.csv. The base name is assumed to be
// filesystem-safe; no sanitization is performed here.
func (s *FileSink) Save(ctx context.Context, baseName string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	fullPath := filepath.Join(s.dir, baseName+".csv")

	slog.InfoContext(ctx, "Saving CSV export",
		slog.String("path", fullPath),
		slog.Int("bytes", len(data)),
		slog.Bool("bom", s.bomPrefix))

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if s.bomPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			file.Close()
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("failed to write export data: %w", err)
	}

	return file.Close()
}

// BOM returns the UTF-8 byte-order mark used at the persistence boundary.
func BOM() []byte {
	bom := make([]byte, len(utf8BOM))
	copy(bom, utf8BOM)
	return bom
}
