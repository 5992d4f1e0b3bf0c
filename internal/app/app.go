package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/marksousa/testecomerc/internal/api"
	healthcheck "github.com/marksousa/testecomerc/internal/health"
	orderservice "github.com/marksousa/testecomerc/internal/service/order"
	"github.com/marksousa/testecomerc/internal/service/outbox"
	"github.com/marksousa/testecomerc/internal/version"
)

// Run wires the whole service and blocks until ctx is cancelled or the HTTP
// server fails.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close(logger)

	deps.buildPublisher(cfg, logger)

	workflow := orderservice.NewWorkflow(
		deps.Orders,
		deps.Products,
		deps.Customers,
		logger.WithField("component", "order-workflow"),
	)

	healthService := healthcheck.NewService(version.String())
	healthService.RegisterChecker("storage", healthcheck.NewSimpleChecker("storage", func() error {
		checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return deps.Ping(checkCtx)
	}))

	apiServer := api.New(workflow, deps.Customers, deps.Products, healthService, logger.WithField("component", "api"))

	worker := outbox.NewWorker(
		deps.Outbox,
		deps.Publisher,
		outbox.WithLogger(logger.WithField("component", "outbox-worker")),
		outbox.WithPollInterval(cfg.OutboxPollInterval),
		outbox.WithBatchSize(cfg.OutboxBatchSize),
		outbox.WithMaxAttempts(cfg.OutboxMaxAttempts),
		outbox.WithRetryBaseDelay(cfg.OutboxRetryBaseDelay),
	)
	go worker.Run(ctx)

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, healthService, logger)

	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: apiServer.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("http server listening on %s", cfg.HTTPAddr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping http server")
		shutdownHTTP(httpSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer serves /metrics for Prometheus scrapes plus the
// liveness and readiness probes.
func startMetricsServer(ctx context.Context, addr string, healthService *healthcheck.Service, logger *log.Entry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthService)
	mux.Handle("/readyz", healthService)
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("metrics available at %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP stops an HTTP server with a bounded grace period.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
