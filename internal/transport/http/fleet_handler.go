package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "fleetadmin/internal/errors"
	"fleetadmin/internal/services"
	"fleetadmin/pkg/contracts/domain"
)

// FleetHandler exposes the user, rider, vehicle, and reservation tables.
type FleetHandler struct {
	service      *services.FleetService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewFleetHandler creates the fleet handler.
func NewFleetHandler(service *services.FleetService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *FleetHandler {
	return &FleetHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "fleet_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the fleet routes.
func (h *FleetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/users", h.ListUsers)

	r.Route("/riders", func(r chi.Router) {
		r.Get("/", h.ListRiders)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.IDCtx)
			r.Get("/", h.GetRider)
			r.Patch("/", h.UpdateRider)
			r.Post("/approve", h.ApproveRider)
			r.Post("/suspend", h.SuspendRider)
		})
	})

	r.Route("/vehicles", func(r chi.Router) {
		r.Get("/", h.ListVehicles)
		r.Post("/", h.CreateVehicle)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.IDCtx)
			r.Get("/", h.GetVehicle)
			r.Patch("/", h.UpdateVehicle)
			r.Delete("/", h.DeleteVehicle)
		})
	})

	r.Route("/reservations", func(r chi.Router) {
		r.Get("/", h.ListReservations)
		r.Post("/", h.CreateReservation)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.IDCtx)
			r.Get("/", h.GetReservation)
			r.Patch("/", h.UpdateReservation)
			r.Post("/cancel", h.CancelReservation)
		})
	})

	return r
}

// IDCtx rejects requests with an empty resource ID.
func (h *FleetHandler) IDCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("id", "resource ID is required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *FleetHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.ListUsers(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

func (h *FleetHandler) ListRiders(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.ListRiders(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

func (h *FleetHandler) GetRider(w http.ResponseWriter, r *http.Request) {
	rider, err := h.service.GetRider(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, rider)
}

func (h *FleetHandler) UpdateRider(w http.ResponseWriter, r *http.Request) {
	var payload domain.RiderUpdate
	if err := decodeJSON(r, &payload); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	rider, err := h.service.UpdateRider(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, rider)
}

func (h *FleetHandler) ApproveRider(w http.ResponseWriter, r *http.Request) {
	rider, err := h.service.ApproveRider(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, rider)
}

func (h *FleetHandler) SuspendRider(w http.ResponseWriter, r *http.Request) {
	rider, err := h.service.SuspendRider(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, rider)
}

func (h *FleetHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.ListVehicles(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

func (h *FleetHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.service.GetVehicle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, vehicle)
}

func (h *FleetHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var payload domain.VehicleCreate
	if err := decodeJSON(r, &payload); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	vehicle, err := h.service.CreateVehicle(r.Context(), payload)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, vehicle)
}

func (h *FleetHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	var payload domain.VehicleUpdate
	if err := decodeJSON(r, &payload); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	vehicle, err := h.service.UpdateVehicle(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, vehicle)
}

func (h *FleetHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteVehicle(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func (h *FleetHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.ListReservations(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

func (h *FleetHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.GetReservation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, res)
}

func (h *FleetHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var payload domain.ReservationCreate
	if err := decodeJSON(r, &payload); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	res, err := h.service.CreateReservation(r.Context(), payload)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, res)
}

func (h *FleetHandler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	var payload domain.ReservationUpdate
	if err := decodeJSON(r, &payload); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	res, err := h.service.UpdateReservation(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, res)
}

func (h *FleetHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.CancelReservation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, res)
}
