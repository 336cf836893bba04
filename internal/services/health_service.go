package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"fleetadmin/pkg/contracts"
)

// ClientCounter reports how many websocket clients are connected. The hub
// satisfies it.
type ClientCounter interface {
	ClientCount() int
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Runtime   map[string]any `json:"runtime,omitempty"`
	Services  map[string]any `json:"services,omitempty"`
}

// ServiceHealth reports the state of one dependency.
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthService answers liveness, readiness, and version queries.
type HealthService struct {
	platform  PlatformAPI
	clients   ClientCounter
	startTime time.Time
	logger    *slog.Logger
}

// NewHealthService creates the health service. clients may be nil when no
// websocket hub is running.
func NewHealthService(platform PlatformAPI, clients ClientCounter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		platform:  platform,
		clients:   clients,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// LivenessCheck reports that the process is running.
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Runtime: map[string]any{
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
		},
	}
}

// ReadinessCheck reports whether the dashboard can serve traffic. The
// platform must answer a ping; the websocket hub is reported but never
// blocks readiness.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Services:  make(map[string]any),
	}

	platformHealth := hs.checkPlatform(ctx)
	status.Services["platform"] = platformHealth
	status.Services["websocket"] = hs.checkWebSocket()

	if platformHealth.Status != "ready" {
		status.Status = "not_ready"
	}

	return status
}

// Version returns build and runtime information.
func (hs *HealthService) Version() map[string]any {
	info := contracts.GetVersionInfo()
	return map[string]any{
		"version":      info.Version,
		"api_version":  info.APIVersion,
		"build_time":   info.BuildTime,
		"git_commit":   info.GitCommit,
		"go_version":   info.GoVersion,
		"os":           info.OS,
		"arch":         info.Architecture,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

func (hs *HealthService) checkPlatform(ctx context.Context) ServiceHealth {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := hs.platform.Ping(pingCtx); err != nil {
		hs.logger.WarnContext(ctx, "platform ping failed", slog.String("error", err.Error()))
		return ServiceHealth{
			Status:  "not_ready",
			Message: err.Error(),
		}
	}
	return ServiceHealth{Status: "ready"}
}

func (hs *HealthService) checkWebSocket() ServiceHealth {
	if hs.clients == nil {
		return ServiceHealth{Status: "disabled"}
	}
	return ServiceHealth{Status: "ready"}
}

// WebSocketClients returns the connected client count, 0 without a hub.
func (hs *HealthService) WebSocketClients() int {
	if hs.clients == nil {
		return 0
	}
	return hs.clients.ClientCount()
}
