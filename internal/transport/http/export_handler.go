package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "fleetadmin/internal/errors"
	"fleetadmin/internal/exporter"
	"fleetadmin/internal/services"
)

// ExportHandler streams entity exports as file downloads.
type ExportHandler struct {
	service      *services.FleetService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates the export handler.
func NewExportHandler(service *services.FleetService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes.
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{entity}", h.Download)
	return r
}

// Download handles GET /api/export/{entity}?format=csv|xlsx. The response
// body is the exact export payload; for CSV a UTF-8 BOM is prepended at
// this boundary so spreadsheet tools detect the encoding.
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = services.FormatCSV
	}

	export, err := h.service.ExportEntity(r.Context(), entity, format, nil)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "streaming export",
		slog.String("entity", entity),
		slog.String("format", format),
		slog.Int("rows", export.Rows),
		slog.Int("bytes", len(export.Data)))

	switch format {
	case services.FormatXLSX:
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, export.BaseName))
		w.WriteHeader(http.StatusOK)
		w.Write(export.Data)
	default:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, export.BaseName))
		w.WriteHeader(http.StatusOK)
		w.Write(exporter.BOM())
		w.Write(export.Data)
	}
}
