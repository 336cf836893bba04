package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "fleetadmin/internal/errors"
	"fleetadmin/internal/services"
	"fleetadmin/pkg/contracts/domain"
)

// ActivityHandler serves the dashboard activity feed.
type ActivityHandler struct {
	service      *services.ActivityService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewActivityHandler creates the activity handler.
func NewActivityHandler(service *services.ActivityService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ActivityHandler {
	return &ActivityHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "activity_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the activity routes.
func (h *ActivityHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.Feed)
	return r
}

// Feed handles GET /api/activity?limit=&offset=&kinds=a,b,c.
func (h *ActivityHandler) Feed(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	kinds, err := parseKinds(r.URL.Query().Get("kinds"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	feed, err := h.service.Feed(r.Context(), req, kinds...)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, feed)
}

// parseKinds splits and validates the comma-separated kind filter.
func parseKinds(raw string) ([]domain.ActivityKind, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	kinds := make([]domain.ActivityKind, 0, len(parts))
	for _, p := range parts {
		kind := domain.ActivityKind(strings.TrimSpace(p))
		if !kind.Valid() {
			return nil, apierrors.ErrValidation("kinds", "unknown activity kind: "+string(kind))
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}
