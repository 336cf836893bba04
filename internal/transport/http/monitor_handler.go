package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "fleetadmin/internal/errors"
	"fleetadmin/internal/services"
)

// MonitorHandler serves the system error monitoring page.
type MonitorHandler struct {
	service      *services.MonitorService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewMonitorHandler creates the monitor handler.
func NewMonitorHandler(service *services.MonitorService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *MonitorHandler {
	return &MonitorHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "monitor_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the monitoring routes.
func (h *MonitorHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/errors", h.Panel)
	r.Post("/errors/{id}/resolve", h.Resolve)
	return r
}

// Panel handles GET /api/monitor/errors.
func (h *MonitorHandler) Panel(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	panel, err := h.service.Panel(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, panel)
}

// Resolve handles POST /api/monitor/errors/{id}/resolve.
func (h *MonitorHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("id", "error ID is required"))
		return
	}

	resolved, err := h.service.Resolve(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resolved)
}
