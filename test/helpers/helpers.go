// test/helpers/helpers.go
package helpers

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/NavodaLakshika/erp-frontend/internal/pkg/config"
)

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	level := slog.LevelError
	if testing.Verbose() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// SetupTestRedis starts an in-memory Redis for the test
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		client.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// LoadTestConfig returns a valid configuration for tests
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "erp-pos-test",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		API: config.APIConfig{
			BaseURL:   "http://localhost:8000/api",
			TokenKey:  "token",
			Timeout:   5 * time.Second,
			RateLimit: 100,
			RateBurst: 100,
			UserAgent: "erp-pos-test",
		},
		POS: config.POSConfig{
			StateFile: "pos_state.json",
			ExportDir: os.TempDir(),
		},
		Redis: config.RedisConfig{
			Host:         "localhost",
			Port:         "6379",
			DB:           1,
			MaxRetries:   1,
			DialTimeout:  time.Second,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			PoolSize:     5,
			MinIdleConns: 1,
			TTL:          time.Minute,
		},
		Asynq: config.AsynqConfig{
			RedisAddr:           "localhost:6379",
			RedisDB:             2,
			Concurrency:         2,
			Queues:              map[string]int{"critical": 6, "default": 3, "low": 1},
			RetryMax:            1,
			ShutdownTimeout:     time.Second,
			HealthCheckInterval: time.Second,
		},
		Worker: config.WorkerConfig{
			RefreshSchedule: "@every 5m",
			Outlets:         []int64{1},
			TaskTimeout:     10 * time.Second,
			UniqueFor:       time.Minute,
		},
		AWS: config.AWSConfig{
			Region:          "us-east-1",
			SecretsCacheTTL: time.Minute,
		},
	}
}
