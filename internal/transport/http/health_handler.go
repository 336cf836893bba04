package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "fleetadmin/internal/errors"
	"fleetadmin/internal/services"
)

// HealthHandler serves liveness, readiness, and version endpoints.
type HealthHandler struct {
	service      *services.HealthService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(service *services.HealthService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *HealthHandler {
	return &HealthHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "health_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the health routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Get("/version", h.Version)
	return r
}

// Liveness handles GET /api/health.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.LivenessCheck(r.Context()))
}

// Readiness handles GET /api/health/ready. Not-ready responses use 503 so
// load balancers take the instance out of rotation.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	status := h.service.ReadinessCheck(r.Context())
	if status.Status != "ready" {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, status)
}

// Version handles GET /api/health/version.
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Version())
}
