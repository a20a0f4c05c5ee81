package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"social-support/internal/aiproxy"
	"social-support/internal/common/camunda"
	"social-support/internal/common/config"
	"social-support/internal/common/database"
	"social-support/internal/common/logger"
	"social-support/internal/common/observability"
	"social-support/internal/intake"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config load failed:", err)
		return 1
	}
	if err := config.ValidateServer(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		return 1
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("starting application server", zap.String("version", cfg.App.Version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New("application-server")
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}
	defer obs.Shutdown(context.Background())

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = database.Retry(ctx, log, "PostgreSQL connection", 15, 2*time.Second, func() error {
		c, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		if err := c.Ping(ctx); err != nil {
			c.Close()
			return err
		}
		pg = c
		return nil
	})
	if err != nil {
		zapLog.Error("postgres unavailable", zap.Error(err))
		return 1
	}
	defer pg.Close()
	if err := pg.EnsureSchema(ctx); err != nil {
		zapLog.Error("schema setup failed", zap.Error(err))
		return 1
	}

	opts := []intake.Option{intake.WithObservability(obs)}

	// --- Elasticsearch (optional) ---
	if cfg.Database.Elasticsearch.Enabled {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Error("elasticsearch client failed", zap.Error(err))
			return 1
		}
		if err := es.Ping(ctx); err != nil {
			zapLog.Warn("elasticsearch unreachable, submissions will not be indexed until it recovers", zap.Error(err))
		}
		opts = append(opts, intake.WithIndexer(intake.NewElasticIndexer(es.Client, es.Index)))
	}

	// --- Zeebe (optional) ---
	if cfg.Camunda.Enabled {
		var zc *camunda.Client
		err := database.Retry(ctx, log, "Zeebe connection", 10, 2*time.Second, func() error {
			c, err := camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
				ConnectionTimeout:      10 * time.Second,
				RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			if err != nil {
				return err
			}
			zc = c
			return nil
		})
		if err != nil {
			zapLog.Error("zeebe unavailable", zap.Error(err))
			return 1
		}
		defer zc.Close()
		opts = append(opts, intake.WithReviewProcess(intake.NewReviewProcess(zc, cfg.Camunda.ProcessID)))
	}

	svc := intake.NewService(intake.NewPostgresRepository(pg.DB, log), log, opts...)

	gen, err := aiproxy.NewGenerator(ctx, cfg.AI)
	if err != nil {
		zapLog.Warn("ai provider not configured, /ai-proxy will reject requests", zap.Error(err))
		gen = nil
	}

	srv := &http.Server{
		Addr: cfg.Server.Address,
		Handler: newRouter(routes{
			submit:  intake.NewHandler(svc),
			aiProxy: aiproxy.NewHandler(gen, log, config.GetDuration(cfg.AI.Timeout)),
			ready:   pg.Ping,
		}),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		zapLog.Info("listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			zapLog.Error("server failed", zap.Error(err))
			return 1
		}
	case <-ctx.Done():
	}

	zapLog.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
		return 1
	}
	zapLog.Info("application server stopped")
	return 0
}
