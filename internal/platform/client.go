// Package platform is the typed HTTP client for the rental platform backend.
// The dashboard never talks to a database directly; every read and write
// goes through this client, which normalizes upstream failures into the
// sentinel errors the service layer branches on.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"fleetadmin/internal/config"
	"fleetadmin/internal/infrastructure"
	"fleetadmin/pkg/contracts/domain"
)

// Sentinel errors for upstream responses. Wrapped errors keep the upstream
// detail; callers match with errors.Is.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrConflict            = errors.New("resource conflict")
	ErrBadRequest          = errors.New("platform rejected request")
	ErrUnauthorized        = errors.New("platform authentication failed")
	ErrPlatformUnavailable = errors.New("platform unavailable")
)

// Client calls the rental platform REST API. All requests share one rate
// limiter so a burst of dashboard traffic cannot starve the platform.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithMetrics attaches business metrics to record per-request telemetry.
func WithMetrics(m *infrastructure.BusinessMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a platform client from configuration.
func NewClient(cfg config.PlatformConfig, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		logger:  logger.With(slog.String("component", "platform_client")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// listParams converts a normalized list request into query parameters.
func listParams(req domain.ListRequest) url.Values {
	req.Normalize()
	q := url.Values{}
	q.Set("limit", strconv.Itoa(req.Limit))
	q.Set("offset", strconv.Itoa(req.Offset))
	if req.Status != "" {
		q.Set("status", req.Status)
	}
	if req.Query != "" {
		q.Set("q", req.Query)
	}
	if req.Sort != "" {
		q.Set("sort", req.Sort)
		q.Set("order", req.Order)
	}
	return q
}

// listEnvelope matches the platform's list response shape.
type listEnvelope[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)

	if err != nil {
		infrastructure.RecordPlatformRequest(ctx, c.metrics, method, path, 0, duration)
		c.logger.ErrorContext(ctx, "platform request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		// Context errors pass through so handlers report timeouts, not 502s
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	infrastructure.RecordPlatformRequest(ctx, c.metrics, method, path, resp.StatusCode, duration)

	c.logger.DebugContext(ctx, "platform request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration),
	)

	if err := c.checkStatus(resp); err != nil {
		return err
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// checkStatus maps non-2xx responses to sentinel errors, carrying the
// upstream message where it helps the operator.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	detail := readErrorDetail(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, detail)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, detail)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, detail)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return fmt.Errorf("%w: %s", ErrBadRequest, detail)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrPlatformUnavailable, resp.StatusCode, detail)
	}
}

// readErrorDetail pulls the message out of a platform error body, falling
// back to the raw text for non-JSON responses.
func readErrorDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return "no detail"
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return string(data)
}

// ListUsers returns a page of admin users.
func (c *Client) ListUsers(ctx context.Context, req domain.ListRequest) ([]domain.User, int, error) {
	var env listEnvelope[domain.User]
	if err := c.do(ctx, http.MethodGet, "/api/v1/users", listParams(req), nil, &env); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return env.Items, env.Total, nil
}

// ListRiders returns a page of riders.
func (c *Client) ListRiders(ctx context.Context, req domain.ListRequest) ([]domain.Rider, int, error) {
	var env listEnvelope[domain.Rider]
	if err := c.do(ctx, http.MethodGet, "/api/v1/riders", listParams(req), nil, &env); err != nil {
		return nil, 0, fmt.Errorf("list riders: %w", err)
	}
	return env.Items, env.Total, nil
}

// GetRider fetches one rider by ID.
func (c *Client) GetRider(ctx context.Context, id string) (*domain.Rider, error) {
	var rider domain.Rider
	if err := c.do(ctx, http.MethodGet, "/api/v1/riders/"+id, nil, nil, &rider); err != nil {
		return nil, fmt.Errorf("get rider %s: %w", id, err)
	}
	return &rider, nil
}

// UpdateRider applies a partial update to a rider profile.
func (c *Client) UpdateRider(ctx context.Context, id string, payload domain.RiderUpdate) (*domain.Rider, error) {
	var rider domain.Rider
	if err := c.do(ctx, http.MethodPatch, "/api/v1/riders/"+id, nil, payload, &rider); err != nil {
		return nil, fmt.Errorf("update rider %s: %w", id, err)
	}
	return &rider, nil
}

// ApproveRider transitions a pending rider to approved.
func (c *Client) ApproveRider(ctx context.Context, id string) (*domain.Rider, error) {
	var rider domain.Rider
	if err := c.do(ctx, http.MethodPost, "/api/v1/riders/"+id+"/approve", nil, nil, &rider); err != nil {
		return nil, fmt.Errorf("approve rider %s: %w", id, err)
	}
	return &rider, nil
}

// SuspendRider suspends a rider account.
func (c *Client) SuspendRider(ctx context.Context, id string) (*domain.Rider, error) {
	var rider domain.Rider
	if err := c.do(ctx, http.MethodPost, "/api/v1/riders/"+id+"/suspend", nil, nil, &rider); err != nil {
		return nil, fmt.Errorf("suspend rider %s: %w", id, err)
	}
	return &rider, nil
}

// ListVehicles returns a page of fleet vehicles.
func (c *Client) ListVehicles(ctx context.Context, req domain.ListRequest) ([]domain.Vehicle, int, error) {
	var env listEnvelope[domain.Vehicle]
	if err := c.do(ctx, http.MethodGet, "/api/v1/vehicles", listParams(req), nil, &env); err != nil {
		return nil, 0, fmt.Errorf("list vehicles: %w", err)
	}
	return env.Items, env.Total, nil
}

// GetVehicle fetches one vehicle by ID.
func (c *Client) GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	if err := c.do(ctx, http.MethodGet, "/api/v1/vehicles/"+id, nil, nil, &vehicle); err != nil {
		return nil, fmt.Errorf("get vehicle %s: %w", id, err)
	}
	return &vehicle, nil
}

// CreateVehicle registers a new vehicle with the fleet.
func (c *Client) CreateVehicle(ctx context.Context, payload domain.VehicleCreate) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	if err := c.do(ctx, http.MethodPost, "/api/v1/vehicles", nil, payload, &vehicle); err != nil {
		return nil, fmt.Errorf("create vehicle: %w", err)
	}
	return &vehicle, nil
}

// UpdateVehicle applies a partial update to a vehicle.
func (c *Client) UpdateVehicle(ctx context.Context, id string, payload domain.VehicleUpdate) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	if err := c.do(ctx, http.MethodPatch, "/api/v1/vehicles/"+id, nil, payload, &vehicle); err != nil {
		return nil, fmt.Errorf("update vehicle %s: %w", id, err)
	}
	return &vehicle, nil
}

// DeleteVehicle retires a vehicle from the fleet.
func (c *Client) DeleteVehicle(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/v1/vehicles/"+id, nil, nil, nil); err != nil {
		return fmt.Errorf("delete vehicle %s: %w", id, err)
	}
	return nil
}

// ListReservations returns a page of reservations.
func (c *Client) ListReservations(ctx context.Context, req domain.ListRequest) ([]domain.Reservation, int, error) {
	var env listEnvelope[domain.Reservation]
	if err := c.do(ctx, http.MethodGet, "/api/v1/reservations", listParams(req), nil, &env); err != nil {
		return nil, 0, fmt.Errorf("list reservations: %w", err)
	}
	return env.Items, env.Total, nil
}

// CreateReservation books a vehicle on behalf of a rider.
func (c *Client) CreateReservation(ctx context.Context, payload domain.ReservationCreate) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := c.do(ctx, http.MethodPost, "/api/v1/reservations", nil, payload, &res); err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	return &res, nil
}

// GetReservation fetches one reservation by ID.
func (c *Client) GetReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := c.do(ctx, http.MethodGet, "/api/v1/reservations/"+id, nil, nil, &res); err != nil {
		return nil, fmt.Errorf("get reservation %s: %w", id, err)
	}
	return &res, nil
}

// UpdateReservation applies a partial update to a reservation.
func (c *Client) UpdateReservation(ctx context.Context, id string, payload domain.ReservationUpdate) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := c.do(ctx, http.MethodPatch, "/api/v1/reservations/"+id, nil, payload, &res); err != nil {
		return nil, fmt.Errorf("update reservation %s: %w", id, err)
	}
	return &res, nil
}

// CancelReservation cancels a pending or active reservation.
func (c *Client) CancelReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := c.do(ctx, http.MethodPost, "/api/v1/reservations/"+id+"/cancel", nil, nil, &res); err != nil {
		return nil, fmt.Errorf("cancel reservation %s: %w", id, err)
	}
	return &res, nil
}

// ListSystemErrors returns a page of aggregated platform errors.
func (c *Client) ListSystemErrors(ctx context.Context, req domain.ListRequest) ([]domain.SystemError, int, error) {
	var env listEnvelope[domain.SystemError]
	if err := c.do(ctx, http.MethodGet, "/api/v1/system/errors", listParams(req), nil, &env); err != nil {
		return nil, 0, fmt.Errorf("list system errors: %w", err)
	}
	return env.Items, env.Total, nil
}

// ResolveSystemError marks an aggregated error as resolved.
func (c *Client) ResolveSystemError(ctx context.Context, id string) (*domain.SystemError, error) {
	var se domain.SystemError
	if err := c.do(ctx, http.MethodPost, "/api/v1/system/errors/"+id+"/resolve", nil, nil, &se); err != nil {
		return nil, fmt.Errorf("resolve system error %s: %w", id, err)
	}
	return &se, nil
}

// ListActivity returns recent activity events, newest first.
func (c *Client) ListActivity(ctx context.Context, req domain.ListRequest) ([]domain.ActivityEvent, int, error) {
	var env listEnvelope[domain.ActivityEvent]
	if err := c.do(ctx, http.MethodGet, "/api/v1/activity", listParams(req), nil, &env); err != nil {
		return nil, 0, fmt.Errorf("list activity: %w", err)
	}
	return env.Items, env.Total, nil
}

// Ping checks platform reachability for health reporting.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/api/v1/health", nil, nil, nil); err != nil {
		return fmt.Errorf("platform ping: %w", err)
	}
	return nil
}
