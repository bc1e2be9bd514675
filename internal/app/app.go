package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/storefront/internal/health"
	"github.com/vladislavdragonenkov/storefront/internal/httpapi"
	"github.com/vladislavdragonenkov/storefront/internal/service/outbox"
	"github.com/vladislavdragonenkov/storefront/internal/version"
)

const shutdownTimeout = 5 * time.Second

// Run запускает приложение целиком: хранилище, сервисы, HTTP API,
// сервер метрик, Kafka и outbox worker. Блокируется до отмены ctx
// или фатальной ошибки сервера.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	repos, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := repos.close(); err != nil {
			logger.WithError(err).Warn("failed to close storage")
		}
	}()

	deps, err := NewDependencies(cfg, repos, logger)
	if err != nil {
		return err
	}
	if deps.Cache != nil {
		defer func() { _ = deps.Cache.Close() }()
	}

	kafkaProducer, publisher, dlqPublisher := initKafkaPublishers(cfg.KafkaBrokers, logger)
	defer closeKafka(kafkaProducer, logger)

	// Outbox worker работает только при живом брокере: без publisher
	// события копятся в pending и будут отправлены после рестарта с Kafka.
	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	if publisher != nil {
		worker := outbox.NewWorker(
			repos.outbox,
			publisher,
			outbox.WithLogger(logger.WithField("component", "outbox-worker")),
			outbox.WithDLQPublisher(dlqPublisher),
			outbox.WithPollInterval(cfg.OutboxPollInterval),
			outbox.WithBatchSize(cfg.OutboxBatchSize),
			outbox.WithMaxAttempts(cfg.OutboxMaxAttempts),
			outbox.WithRetryBaseDelay(cfg.OutboxRetryDelay),
		)
		go worker.Run(workerCtx)
	}

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.Register("storage", repos.ping)
	if deps.Cache != nil {
		healthHandler.Register("redis", deps.Cache.Ping)
	}
	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiServer := httpapi.NewServer(
		deps.Auth,
		deps.Catalog,
		deps.Cart,
		deps.Checkout,
		httpapi.WithLogger(logger.WithField("component", "httpapi")),
		httpapi.WithRequestTimeout(cfg.RequestTimeout),
	)
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: apiServer.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API server listening on %s", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		stopWorker()
		shutdownHTTP(srv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		stopWorker()
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus
// и health-пробы на отдельном порту.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.Readiness)
	mux.HandleFunc("/livez", healthcheck.Liveness)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("metrics available at %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/readyz, %s/livez", addr, addr, addr)
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

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
