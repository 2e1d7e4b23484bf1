package main

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

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"

	"github.com/ZanzyTHEbar/edubloom-ai/internal/api"
	"github.com/ZanzyTHEbar/edubloom-ai/internal/monitoring"
	"github.com/ZanzyTHEbar/edubloom-ai/internal/retrain"
	"github.com/ZanzyTHEbar/edubloom-ai/internal/risk"
)

const serverReadHeaderTimeout = 10 * time.Second

var serveCmd = &cli.Command{
	Name:    "serve",
	Aliases: []string{"server"},
	Usage:   "Start the HTTP API (default)",
	Action:  cmdServe,
}

func cmdServe(c *cli.Context) error {
	cfg := getConfig(c).Config

	logger := monitoring.NewLogger(monitoring.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	slog.SetDefault(logger.Logger)
	gin.SetMode(cfg.GinMode())

	metrics, err := monitoring.NewMetrics()
	if err != nil {
		return fmt.Errorf("initializing metrics: %w", err)
	}

	tracing, err := monitoring.NewTracing(c.Context, monitoring.TracingConfig{
		ServiceName:    "edubloom-ai",
		ServiceVersion: cfg.Service.Version,
		Endpoint:       cfg.Tracing.OTLPEndpoint,
	})
	if err != nil {
		return errors.Join(fmt.Errorf("initializing tracing: %w", err), metrics.Shutdown(c.Context))
	}

	router := api.NewRouter(api.Dependencies{
		Config:  cfg,
		Scorer:  risk.NewScorer(risk.DefaultWeights()),
		Retrain: retrain.NewService(retrain.NewLogScheduler(logger)),
		Metrics: metrics,
		Tracing: tracing,
		Logger:  logger,
	})

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: serverReadHeaderTimeout,
	}

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	logger.SystemLogger("server_start", fmt.Sprintf("listening on %s (%s)", srv.Addr, cfg.Server.Environment))
	return runServer(srv, quit, cfg.Server.ShutdownTimeout, logger,
		shutdownStep{"flushing traces", tracing.Shutdown},
		shutdownStep{"stopping metrics", metrics.Shutdown},
	)
}

// shutdownStep is a named cleanup run once the server stops.
type shutdownStep struct {
	name string
	fn   func(context.Context) error
}

// runServer serves until a signal arrives on quit or the listener fails.
// Either way every step runs, and all failures are joined.
func runServer(srv *http.Server, quit <-chan os.Signal, timeout time.Duration, logger *monitoring.Logger, steps ...shutdownStep) error {
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var errs []error
	select {
	case err := <-serveErr:
		errs = append(errs, fmt.Errorf("listening on %s: %w", srv.Addr, err))
	case sig := <-quit:
		logger.SystemLogger("server_shutdown", "received "+sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server forced to shutdown: %w", err))
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", step.name, err))
		}
	}

	logger.SystemLogger("server_exit", "server exited")
	return errors.Join(errs...)
}
