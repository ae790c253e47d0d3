package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/config"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/datasets"
	apierrors "github.com/waqarulwahab/stock-data-visualizer-web-app/internal/errors"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/infrastructure"
	customMiddleware "github.com/waqarulwahab/stock-data-visualizer-web-app/internal/middleware"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/services"
	handlers "github.com/waqarulwahab/stock-data-visualizer-web-app/internal/transport/http"
	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/validation"
)

const AppName = "Stock Data Visualizer"

// multipartOverhead is allowed on top of the upload limit for form framing
const multipartOverhead = 64 << 10

// BuildTime is set at link time
var BuildTime string

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Runtime       *infrastructure.RuntimeMetrics
	ErrorHandler  *apierrors.ErrorHandler
	Services      *ServiceContainer
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Datasets  *datasets.MemoryStore
	Dashboard *services.DashboardService
	Health    *services.HealthService
}

// NewApplication loads the configuration and the global logger, then wires
// the application.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New wires the application from cfg
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", config.AppVersion),
		slog.String("address", cfg.Server.Addr()))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
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
		ErrorHandler:  apierrors.NewErrorHandler(logger, false),
	}

	if cfg.Telemetry.RuntimeMetrics {
		app.Runtime, err = infrastructure.NewRuntimeMetrics(otelProviders.Meter, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to create runtime metrics: %w", err)
		}
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	store := datasets.NewMemoryStore(datasets.Options{
		TTL:           a.Config.Datasets.TTL,
		MaxEntries:    a.Config.Datasets.MaxEntries,
		SweepInterval: a.Config.Datasets.SweepInterval,
		OnRemove: func(_ datasets.Entry, reason datasets.RemoveReason) {
			infrastructure.RecordActiveDatasetChange(context.Background(), a.Metrics, -1, string(reason))
		},
	}, a.Logger)

	files := validation.NewFileValidator(a.Logger, a.Config.Upload.MaxBytes, a.Config.Upload.Extensions)
	tracer := services.NewDashboardTracer(a.OTelProviders.Tracer, a.Metrics)

	a.Services = &ServiceContainer{
		Datasets:  store,
		Dashboard: services.NewDashboardService(store, files, customMiddleware.NewValidator(), a.Config.Dashboard, tracer, a.Logger),
		Health:    services.NewHealthService(config.AppVersion, BuildTime, store, a.Config.Datasets.MaxEntries, a.Runtime, a.Logger),
	}
}

// setupRouter configures the router and its middleware stack.
// Order: RequestID → RealIP → OTel → Logger → Recoverer → Timeout
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))
	r.Use(customMiddleware.SecurityHeaders)
	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	metricsHandler := handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.Runtime)
	r.Get("/", handlers.ServeIndex(config.AppVersion))
	r.Get(config.MetricsEndpoint, metricsHandler.Prometheus)

	a.setupAPIRoutes(r, metricsHandler)

	a.Router = r
}

func (a *Application) setupAPIRoutes(r chi.Router, metricsHandler *handlers.MetricsHandler) {
	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger)
	queryValidator := customMiddleware.NewQueryParamValidator(a.Logger, a.ErrorHandler)
	dashboardHandler := handlers.NewDashboardHandler(a.Services.Dashboard, queryValidator, a.Logger, a.ErrorHandler)
	clientLogHandler := handlers.NewClientLogHandler(customMiddleware.NewValidator(), a.Logger, a.ErrorHandler)

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.ErrorHandler))

		r.Mount(config.HealthEndpoint, healthHandler.Routes())
		r.Get(config.VersionEndpoint, healthHandler.Version)
		r.Get(config.RuntimePath, metricsHandler.Runtime)

		r.Group(func(r chi.Router) {
			if a.Config.Security.RateLimit.Enabled {
				r.Use(customMiddleware.NewRateLimiter(
					a.Config.Security.RateLimit.RPS,
					a.Config.Security.RateLimit.Burst,
					a.ErrorHandler,
					a.Logger,
				).Handler)
			}
			r.Use(customMiddleware.MaxBodySize(a.Config.Upload.MaxBytes + multipartOverhead))
			r.Use(customMiddleware.Compress(5))

			r.Mount(config.DatasetsPath, dashboardHandler.DatasetRoutes())
			r.With(customMiddleware.ContentTypeValidator(a.ErrorHandler, "multipart/form-data")).
				Post(config.DashboardPath, dashboardHandler.DashboardFromUpload)
			r.With(customMiddleware.ContentTypeValidator(a.ErrorHandler, "application/json")).
				Post(config.ClientLogsPath, clientLogHandler.Handle)
		})
	})
}

// getCORSConfig allows the configured browser origins
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	cors := customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}
	a.Logger.Info("CORS configured", slog.Any("allowed_origins", cors.AllowedOrigins))
	return cors
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives. The HTTP
// server, the dataset janitor and the runtime collector stop together.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.Services.Datasets.Run(gctx)
	})

	if a.Runtime != nil {
		g.Go(func() error {
			return a.Runtime.Run(gctx)
		})
	}

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "HTTP server listening",
			slog.String("address", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("Shutdown requested")
		return a.Stop(context.Background())
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete",
		slog.Int("datasets_dropped", a.Services.Datasets.Len()),
		slog.Duration("shutdown_timeout", a.Config.Server.ShutdownTimeout))

	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// WaitReady polls the health endpoint until the server answers or ctx ends
func (a *Application) WaitReady(ctx context.Context, baseURL string) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+config.HealthEndpoint+"/live", nil)
		if err != nil {
			return err
		}
		if resp, err := http.DefaultClient.Do(req); err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
