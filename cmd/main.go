package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/vaxtrack/internal/adapters/feed"
	"github.com/okian/vaxtrack/internal/adapters/http/api"
	"github.com/okian/vaxtrack/internal/adapters/http/site"
	"github.com/okian/vaxtrack/internal/adapters/http/swagger"
	"github.com/okian/vaxtrack/internal/adapters/repository"
	app "github.com/okian/vaxtrack/internal/app"
	"github.com/okian/vaxtrack/internal/config"
	"github.com/okian/vaxtrack/internal/domain/normalize"
	"github.com/okian/vaxtrack/internal/domain/selection"
	"github.com/okian/vaxtrack/pkg/logger"
	"github.com/okian/vaxtrack/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if cfg.LogFormat != "text" {
		if err := logger.InitWithOptions(logger.Options{Format: cfg.LogFormat}); err != nil {
			os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
			return
		}
	}
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Runtime collectors live next to the service metrics on the custom registry.
	metrics.GetRegistry().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc := newService(cfg, loggerInstance)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc, loggerInstance),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newService wires feed, normalizer and store into the revalidation service.
func newService(cfg *config.Config, log logger.Logger) *app.Service {
	client := feed.New(
		feed.WithURL(cfg.FeedURL),
		feed.WithTimeout(cfg.FetchTimeout),
		feed.WithRetries(cfg.FetchRetries),
		feed.WithUserAgent(cfg.UserAgent),
		feed.WithMetric(cfg.MetricValue()),
		feed.WithLogger(log.Named("feed")),
	)
	normalizer := normalize.New(
		normalize.WithSource(client),
		normalize.WithMetric(cfg.MetricValue()),
		normalize.WithLocale(cfg.LocaleTag()),
		normalize.WithLogger(log.Named("normalize")),
		normalize.WithStatsHook(func(s normalize.Stats) {
			metrics.RecordRows(s.Read, s.Skipped)
		}),
	)
	return app.New(
		app.WithLogger(log.Named("service")),
		app.WithNormalizer(normalizer),
		app.WithStore(repository.NewMemoryStore()),
		app.WithRevalidateInterval(cfg.RevalidateInterval),
	)
}

// newMux registers the page, the JSON API and the API docs.
func newMux(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) *http.ServeMux {
	validation := selection.ParseValidation(cfg.LocationValidation)

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc,
		api.WithValidation(validation),
		api.WithDefaultLocation(cfg.DefaultLocation),
	).Register(ctx, mux)
	site.NewHandler(svc,
		site.WithValidation(validation),
		site.WithDefaultLocation(cfg.DefaultLocation),
		site.WithRevalidateInterval(svc.RevalidateInterval()),
		site.WithLogger(log.Named("site")),
	).Register(ctx, mux)
	return mux
}
