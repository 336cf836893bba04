// Command exportcsv pulls entity tables from the rental platform and
// writes them to disk as CSV (or XLSX) files, one file per entity.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fleetadmin/internal/config"
	"fleetadmin/internal/exporter"
	"fleetadmin/internal/infrastructure"
	"fleetadmin/internal/platform"
	"fleetadmin/internal/services"
)

func main() {
	entity := flag.String("entity", "all", "entity to export: users | riders | vehicles | reservations | errors | all")
	out := flag.String("out", "", "output directory (defaults to data/exports relative to executable)")
	format := flag.String("format", services.FormatCSV, "output format: csv | xlsx")
	stream := flag.Bool("stream", false, "stream CSV rows to disk as pages arrive instead of buffering whole tables (csv only)")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("failed to resolve paths", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *out == "" {
		*out = paths.ExportsDir
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config, using defaults", slog.String("error", err.Error()))
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("exportcsv.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}

	entities, err := resolveEntities(*entity)
	if err != nil {
		logger.Error("invalid entity", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *format != services.FormatCSV && *format != services.FormatXLSX {
		logger.Error("invalid format", slog.String("format", *format))
		os.Exit(1)
	}
	if *stream && *format != services.FormatCSV {
		logger.Error("streaming only supports csv", slog.String("format", *format))
		os.Exit(1)
	}

	if err := os.MkdirAll(*out, 0755); err != nil {
		logger.Error("cannot create output directory",
			slog.String("path", *out),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("starting export",
		slog.String("entities", strings.Join(entities, ",")),
		slog.String("format", *format),
		slog.String("output_dir", *out),
		slog.String("platform_url", cfg.Platform.BaseURL))

	client := platform.NewClient(cfg.Platform, logger)
	fleet := services.NewFleetService(client, logger, nil)
	sink := exporter.NewFileSink(*out, cfg.Export.BOMPrefix)

	var csvWriter *exporter.CSVWriter
	if *stream {
		// Stream writes resolve relative filenames against the exports dir.
		paths.ExportsDir = *out
		csvWriter = exporter.NewCSVWriter(paths)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ExportTimeout)
	defer cancel()

	failed := 0
	for _, name := range entities {
		if err := exportOne(ctx, fleet, sink, csvWriter, name, *format, *out, logger); err != nil {
			logger.Error("export failed",
				slog.String("entity", name),
				slog.String("error", err.Error()))
			failed++
		}
	}

	if failed > 0 {
		logger.Error("export finished with failures",
			slog.Int("failed", failed),
			slog.Int("total", len(entities)))
		os.Exit(1)
	}
	logger.Info("export finished", slog.Int("entities", len(entities)))
}

// exportOne renders a single entity. Buffered CSV files go through the
// sink, streamed ones through the CSV writer; XLSX payloads are written
// directly since the sink boundary is CSV-specific.
func exportOne(ctx context.Context, fleet *services.FleetService, sink exporter.Sink, csvWriter *exporter.CSVWriter, entity, format, outDir string, logger *slog.Logger) error {
	var (
		export *services.Export
		err    error
	)
	if csvWriter != nil && format == services.FormatCSV {
		export, err = fleet.StreamEntityCSV(ctx, entity, csvWriter)
	} else {
		export, err = fleet.ExportEntity(ctx, entity, format, sink)
	}
	if err != nil {
		return err
	}

	filename := export.BaseName + "." + format
	if format == services.FormatXLSX {
		if err := os.WriteFile(filepath.Join(outDir, filename), export.Data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", filename, err)
		}
	}

	logger.Info("entity exported",
		slog.String("entity", entity),
		slog.String("file", filename),
		slog.Int("rows", export.Rows))
	return nil
}

// resolveEntities expands "all" and validates the entity name.
func resolveEntities(name string) ([]string, error) {
	if name == "all" {
		return services.ExportEntities, nil
	}
	for _, known := range services.ExportEntities {
		if name == known {
			return []string{name}, nil
		}
	}
	return nil, fmt.Errorf("unknown entity %q (valid: %s, all)", name, strings.Join(services.ExportEntities, ", "))
}
