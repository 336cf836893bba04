package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fleetadmin/internal/config"
	apierrors "fleetadmin/internal/errors"
	"fleetadmin/internal/infrastructure"
	customMiddleware "fleetadmin/internal/middleware"
	"fleetadmin/internal/platform"
	"fleetadmin/internal/services"
	handlers "fleetadmin/internal/transport/http"
	ws "fleetadmin/internal/websocket"
	"fleetadmin/pkg/contracts"
)

const AppName = "Fleet Admin Dashboard"

// Application is the top-level container holding every wired component.
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Platform      *platform.Client
	WebSocketHub  *ws.Hub
	Services      *ServiceContainer
}

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Fleet     *services.FleetService
	Dashboard *services.DashboardService
	Activity  *services.ActivityService
	Monitor   *services.MonitorService
	Health    *services.HealthService
}

// NewApplication loads configuration and wires every component.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		Metrics:       metrics,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the platform client, hub, and service layer.
func (a *Application) initializeServices() error {
	hub := ws.NewHub(a.Logger)
	hub.Start()
	a.WebSocketHub = hub

	a.Platform = platform.NewClient(a.Config.Platform, a.Logger,
		platform.WithMetrics(a.Metrics))

	fleet := services.NewFleetService(a.Platform, a.Logger, a.Metrics)
	dashboard := services.NewDashboardService(a.Platform, a.Logger)
	activity := services.NewActivityService(a.Platform, hub, a.Logger)
	monitor := services.NewMonitorService(a.Platform, activity, a.Logger)
	health := services.NewHealthService(a.Platform, hub, a.Logger)

	a.Services = &ServiceContainer{
		Fleet:     fleet,
		Dashboard: dashboard,
		Activity:  activity,
		Monitor:   monitor,
		Health:    health,
	}

	return nil
}

// setupRouter configures the HTTP router with all routes.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	// Minimal middleware that never wraps the ResponseWriter, so the
	// websocket upgrade still works.
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	wsHandler := handlers.NewWebSocketHandler(a.WebSocketHub, a.Config.Security.AllowedOrigins, a.Logger)
	r.With(customMiddleware.WebSocketTraceMiddleware(a.Logger)).Handle("/ws", wsHandler)

	r.Group(func(r chi.Router) {
		if a.OTelProviders != nil {
			otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
			if err != nil {
				a.Logger.Error("failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
			} else {
				r.Use(otelMiddleware.Handler)
			}
		}
		r.Use(customMiddleware.BusinessMetricsMiddleware(a.Metrics))

		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.corsConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r, errorHandler)
	})

	// Prometheus scrape endpoint stays outside the middleware group.
	if a.OTelProviders != nil && a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes mounts all API handlers.
func (a *Application) setupAPIRoutes(r chi.Router, errorHandler *apierrors.ErrorHandler) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		// Standard timeout for interactive endpoints.
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))

			healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger, errorHandler)
			r.Mount("/health", healthHandler.Routes())

			dashboardHandler := handlers.NewDashboardHandler(a.Services.Dashboard, a.Logger, errorHandler)
			r.Mount("/dashboard", dashboardHandler.Routes())

			activityHandler := handlers.NewActivityHandler(a.Services.Activity, a.Logger, errorHandler)
			r.Mount("/activity", activityHandler.Routes())

			monitorHandler := handlers.NewMonitorHandler(a.Services.Monitor, a.Logger, errorHandler)
			r.Mount("/monitor", monitorHandler.Routes())

			fleetHandler := handlers.NewFleetHandler(a.Services.Fleet, a.Logger, errorHandler)
			r.Mount("/", fleetHandler.Routes())
		})

		// Exports page the whole entity and can exceed the read timeout.
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.Timeout(a.Config.Server.ExportTimeout, a.Logger))

			exportHandler := handlers.NewExportHandler(a.Services.Fleet, a.Logger, errorHandler)
			r.Mount("/export", exportHandler.Routes())
		})
	})
}

// corsConfig builds the CORS middleware configuration.
func (a *Application) corsConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           300,
		Logger:           a.Logger,
	}
}

// createServer creates the HTTP server.
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start begins serving. Server errors cancel the passed context.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting server",
		slog.Int("port", a.Config.Server.Port),
		slog.String("platform_url", a.Config.Platform.BaseURL),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	// A failed ping is logged, not fatal; readiness keeps reporting it.
	if err := a.Platform.Ping(ctx); err != nil {
		a.Logger.WarnContext(ctx, "platform not reachable at startup",
			slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.WebSocketHub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run runs the application until interrupted.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
