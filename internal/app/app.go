package app

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"stockpulse/internal/config"
	"stockpulse/internal/errors"
	"stockpulse/internal/infrastructure"
	customMiddleware "stockpulse/internal/middleware"
	"stockpulse/internal/services"
	handlers "stockpulse/internal/transport/http"
)

const (
	Version = "1.2.0"
	AppName = "StockPulse - Stock Price Dashboard"
)

// BuildTime is set at compile time via ldflags.
var BuildTime = "unknown"

// Application represents the main application container
type Application struct {
	Config         *config.Config
	Router         *chi.Mux
	Server         *http.Server
	DatasetService *services.DatasetService
	HealthService  *services.HealthService
	Metrics        *infrastructure.Metrics
	Logger         *slog.Logger
	FrontendFS     fs.FS
}

// NewApplication creates a new application instance with dependency injection
func NewApplication(frontendFS fs.FS) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	app := &Application{
		Config:     cfg,
		Logger:     logger,
		Metrics:    infrastructure.NewMetrics(),
		FrontendFS: frontendFS,
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	a.DatasetService = services.NewDatasetService(a.Logger, a.Config.Upload.DatasetTTL)
	a.HealthService = services.NewHealthService(Version, BuildTime, a.DatasetService, a.Logger)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	// Prometheus endpoint stays outside the logging and metrics chain so
	// scrapes do not pollute request logs.
	r.Handle("/metrics", a.Metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Metrics(a.Metrics))
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.Compress(5))
		r.Use(customMiddleware.CORS(a.getCORSConfig()))

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)

		if a.FrontendFS != nil {
			a.setupFrontend(r)
		}
	})

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)

		errorHandler := errors.NewErrorHandler(a.Logger)

		datasetHandler := handlers.NewDatasetHandler(
			a.DatasetService,
			a.Logger,
			errorHandler,
			a.Metrics,
			a.Config.Upload.MaxSize,
		)
		r.Mount("/datasets", datasetHandler.Routes())
	})
}

// setupFrontend serves the embedded single page frontend.
func (a *Application) setupFrontend(r chi.Router) {
	fileServer := http.FileServer(http.FS(a.FrontendFS))

	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		path := strings.TrimPrefix(req.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}

		if _, err := fs.Stat(a.FrontendFS, path); err != nil {
			// Unknown paths fall back to the index page.
			req.URL.Path = "/"
		}
		fileServer.ServeHTTP(w, req)
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		ExposedHeaders: []string{"X-Request-ID"},
		Logger:         a.Logger,
	}
}

// createServer creates the HTTP server
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

// Start starts the HTTP server
func (a *Application) Start(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "HTTP server listening",
		slog.String("addr", a.Server.Addr))

	if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		return fmt.Errorf("log file close failed: %w", err)
	}

	a.Logger.InfoContext(ctx, "Server stopped")
	return nil
}

// Run starts the application and blocks until an interrupt signal arrives,
// then shuts down gracefully.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- a.Start(ctx)
	}()

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "Received signal", slog.String("signal", sig.String()))
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout+5*time.Second)
	defer stopCancel()
	return a.Stop(stopCtx)
}
