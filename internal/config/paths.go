package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations; everything is
// resolved relative to the executable directory, never the working
// directory.
type Paths struct {
	ExecutableDir string
	DataDir       string
	ExportsDir    string
	CacheDir      string
	LogsDir       string
}

// GetPaths returns the application paths relative to the executable location.
//
// Directory structure:
//
//	<exe dir>/
//	  ├── data/
//	  │   ├── exports/   (generated CSV/XLSX exports)
//	  │   └── cache/     (temporary files)
//	  └── logs/          (application logs)
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	exeDir := filepath.Dir(exe)
	dataDir := filepath.Join(exeDir, "data")

	return &Paths{
		ExecutableDir: exeDir,
		DataDir:       dataDir,
		ExportsDir:    filepath.Join(dataDir, "exports"),
		CacheDir:      filepath.Join(dataDir, "cache"),
		LogsDir:       filepath.Join(exeDir, "logs"),
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.ExportsDir,
		p.CacheDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetExportPath returns the path for an export file
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportsDir, filename)
}

// GetEntityExportPath returns the dated export path for an entity, e.g.
// exports/vehicles_2024-11-16.csv.
func (p *Paths) GetEntityExportPath(entity string, date time.Time, ext string) string {
	filename := fmt.Sprintf("%s_%s.%s", entity, date.UTC().Format("2006-01-02"), ext)
	return filepath.Join(p.ExportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetCachePath returns the path for a cache file
func (p *Paths) GetCachePath(filename string) string {
	return filepath.Join(p.CacheDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs path resolution information for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()
	if logger == nil {
		return
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("executable", p.ExecutableDir),
			slog.String("data", p.DataDir),
			slog.String("exports", p.ExportsDir),
			slog.String("cache", p.CacheDir),
			slog.String("logs", p.LogsDir),
		))
}
