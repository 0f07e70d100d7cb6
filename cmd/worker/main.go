// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/NavodaLakshika/erp-frontend/internal/app"
	"github.com/NavodaLakshika/erp-frontend/internal/pkg/config"
	"github.com/NavodaLakshika/erp-frontend/internal/pkg/logger"
	"github.com/NavodaLakshika/erp-frontend/internal/workers"
)

func main() {
	// Setup logger
	slogger := logger.SetupLogger(&logger.LogConfig{Level: "info", Format: "json", Output: "stderr"})

	// Load configuration
	cfg, err := config.Load(slogger.Logger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(app.LogConfig(cfg))
	defer slogger.Close()
	slogger.Info("starting stock refresh worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("redis_addr", cfg.Asynq.RedisAddr),
		slog.Any("outlets", cfg.Worker.Outlets))

	ctx := context.Background()
	deps, err := app.New(ctx, cfg, slogger.Logger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.Close()

	if deps.StockCache == nil {
		slogger.Error("the worker needs the Redis stock cache; set REDIS_ENABLED=true and check the connection")
		os.Exit(1)
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}

	// Create Asynq server
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency:         cfg.Asynq.Concurrency,
		Queues:              cfg.Asynq.Queues,
		StrictPriority:      cfg.Asynq.StrictPriority,
		ErrorHandler:        asynq.ErrorHandlerFunc(handleError),
		RetryDelayFunc:      exponentialBackoff,
		ShutdownTimeout:     cfg.Asynq.ShutdownTimeout,
		HealthCheckFunc:     healthCheck,
		HealthCheckInterval: cfg.Asynq.HealthCheckInterval,
		Logger:              newAsynqLogger(slogger.Logger),
	})

	mux := asynq.NewServeMux()
	mux.Use(workers.LoggingMiddleware(slogger))
	refresher := workers.NewStockRefreshProcessor(deps.StockCache, cfg.Worker.TaskTimeout, slogger.Logger)
	mux.HandleFunc(workers.TypeStockRefresh, refresher.ProcessStockRefresh)

	// Periodic refresh of every configured outlet
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Logger: newAsynqLogger(slogger.Logger),
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				slogger.Warn("scheduled stock refresh not enqueued", slog.String("error", err.Error()))
			}
		},
	})
	for _, outletID := range cfg.Worker.Outlets {
		task, err := workers.NewStockRefreshTask(outletID)
		if err != nil {
			slogger.Error("invalid outlet in worker config", slog.Int64("outlet_id", outletID), slog.String("error", err.Error()))
			os.Exit(1)
		}
		entryID, err := scheduler.Register(cfg.Worker.RefreshSchedule, task,
			asynq.Queue(workers.QueueLow),
			asynq.Unique(cfg.Worker.UniqueFor),
			asynq.MaxRetry(cfg.Asynq.RetryMax))
		if err != nil {
			slogger.Error("failed to register stock refresh schedule",
				slog.String("schedule", cfg.Worker.RefreshSchedule),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		slogger.Info("stock refresh scheduled",
			slog.Int64("outlet_id", outletID),
			slog.String("schedule", cfg.Worker.RefreshSchedule),
			slog.String("entry_id", entryID))
	}

	// Handle shutdown gracefully
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Run(mux); err != nil {
			slogger.Error("failed to run worker server", slog.String("error", err.Error()))
			shutdown <- syscall.SIGTERM
		}
	}()

	if len(cfg.Worker.Outlets) > 0 {
		go func() {
			if err := scheduler.Run(); err != nil {
				slogger.Error("failed to run scheduler", slog.String("error", err.Error()))
				shutdown <- syscall.SIGTERM
			}
		}()
	}

	slogger.Info("worker started successfully",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues))

	// Wait for shutdown signal
	sig := <-shutdown
	slogger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Gracefully shutdown
	if len(cfg.Worker.Outlets) > 0 {
		scheduler.Shutdown()
	}
	srv.Shutdown()
	slogger.Info("worker shutdown complete")
}

func handleError(ctx context.Context, task *asynq.Task, err error) {
	logger.FromContext(ctx).Error("task processing failed",
		slog.String("type", task.Type()),
		slog.String("payload", string(task.Payload())),
		slog.String("error", err.Error()))
}

func exponentialBackoff(n int, e error, t *asynq.Task) time.Duration {
	baseDelay := time.Second
	maxDelay := 10 * time.Minute
	delay := baseDelay * time.Duration(1<<uint(n))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

func healthCheck(err error) {
	if err != nil {
		slog.Error("worker health check failed", slog.String("error", err.Error()))
	}
}

// asynqLogger adapts slog for Asynq
type asynqLogger struct {
	logger *slog.Logger
}

func newAsynqLogger(logger *slog.Logger) *asynqLogger {
	return &asynqLogger{
		logger: logger.With(slog.String("component", "asynq")),
	}
}

func (l *asynqLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *asynqLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *asynqLogger) Warn(args ...interface{}) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *asynqLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
