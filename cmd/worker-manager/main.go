// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"social-support/internal/common/aws"
	"social-support/internal/common/camunda"
	"social-support/internal/common/config"
	"social-support/internal/common/database"
	"social-support/internal/common/logger"
	"social-support/internal/common/observability"

	sac "social-support/internal/workers/application/send-application-confirmation"
)

// The application server owns :8080 on a shared host.
const healthAddress = ":8081"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config load failed:", err)
		return 1
	}
	if err := config.ValidateWorker(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		return 1
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("starting worker manager")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New("worker-manager")
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}
	defer obs.Shutdown(context.Background())

	// --- Zeebe ---
	var zc *camunda.Client
	err = database.Retry(ctx, log, "Zeebe connection", 10, 2*time.Second, func() error {
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
	zapLog.Info("zeebe client connected")

	// --- AWS ---
	awsCfg, err := aws.LoadConfig(ctx, cfg.Notifications.AWS.Region)
	if err != nil {
		zapLog.Error("aws config failed", zap.Error(err))
		zc.Close()
		return 1
	}

	// --- Workers ---
	var workers []worker.JobWorker
	confirmation := sac.NewHandler(sac.LoadConfig(cfg), aws.NewSESClient(awsCfg), aws.NewSNSClient(awsCfg), log)
	if jw := camunda.StartWorker(zc.GetClient(), sac.TaskType, config.GetWorkerConfig(cfg, sac.TaskType), confirmation.Handle, log); jw != nil {
		workers = append(workers, jw)
	}
	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := zc.HealthCheck(checkCtx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())
	health := &http.Server{Addr: healthAddress, Handler: mux, ReadTimeout: 5 * time.Second}
	go func() {
		zapLog.Info("health/metrics server listening", zap.String("address", healthAddress))
		if err := health.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("health/metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("shutdown signal received, stopping workers")

	for _, jw := range workers {
		jw.Close()
		jw.AwaitClose()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := health.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("health server shutdown failed", zap.Error(err))
	}
	if err := zc.Close(); err != nil {
		zapLog.Error("error closing zeebe client", zap.Error(err))
	}

	zapLog.Info("worker manager stopped")
	return 0
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
