// internal/workers/middleware.go
package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/NavodaLakshika/erp-frontend/internal/pkg/logger"
)

// LoggingMiddleware stores base in the task context, tags it with the task
// id and logs how each task ended. Handlers get their logger through
// logger.FromContext.
func LoggingMiddleware(base *logger.Logger) asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
			if id, ok := asynq.GetTaskID(ctx); ok {
				ctx = logger.WithRequestID(ctx, id)
			}
			ctx = logger.WithLogger(ctx, base)
			log := logger.FromContext(ctx).With(slog.String("task_type", t.Type()))

			start := time.Now()
			err := next.ProcessTask(ctx, t)
			if err != nil {
				log.Warn("task failed",
					slog.Duration("duration_ms", time.Since(start)),
					slog.String("error", err.Error()))
				return err
			}
			log.Debug("task done", slog.Duration("duration_ms", time.Since(start)))
			return nil
		})
	}
}
