// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/NavodaLakshika/erp-frontend/internal/adapters/queue"
	redis_a "github.com/NavodaLakshika/erp-frontend/internal/adapters/redis_adapter"
	"github.com/NavodaLakshika/erp-frontend/internal/adapters/rest"
	"github.com/NavodaLakshika/erp-frontend/internal/core/ports"
	"github.com/NavodaLakshika/erp-frontend/internal/pkg/config"
	"github.com/NavodaLakshika/erp-frontend/internal/pkg/logger"
)

// envSecretPrefix names the environment fallback for secrets when no
// Secrets Manager entry is configured: POS_SECRET_TOKEN holds the api token.
const envSecretPrefix = "POS_SECRET_"

// Dependencies is everything the terminal and the worker share.
type Dependencies struct {
	Config    *config.Config
	API       *rest.Client
	Customers *rest.CustomerRepository
	Catalog   *rest.CatalogRepository

	// Stocks is the cached repository when Redis is enabled and reachable,
	// otherwise the catalog itself.
	Stocks     ports.StockRepository
	StockCache *redis_a.CachedStockRepository
	Refresher  *queue.StockRefreshQueue

	redisClient *redis.Client
	asynqClient *asynq.Client
}

// LogConfig maps the app section onto the logger settings.
func LogConfig(cfg *config.Config) *logger.LogConfig {
	return &logger.LogConfig{
		Level:          cfg.App.LogLevel,
		Format:         cfg.App.LogFormat,
		Output:         "stderr",
		File:           cfg.App.LogFile,
		AddSource:      cfg.App.Debug,
		Environment:    cfg.App.Environment,
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
	}
}

// New builds the REST client and repositories. The Redis cache is optional:
// when it is disabled or cannot be reached the repositories talk to the
// backend directly.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg}

	var sm config.SecretsManager = config.NewEnvSecretsManager(envSecretPrefix)
	if cfg.API.TokenSecret != "" {
		awsSecrets, err := config.NewAWSSecretsManager(ctx, cfg.AWS.Region, cfg.API.TokenSecret, cfg.AWS.SecretsCacheTTL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize secrets manager: %w", err)
		}
		sm = awsSecrets
	}

	token, err := config.ResolveAPIToken(ctx, cfg, sm)
	if err != nil {
		return nil, err
	}
	if token == "" {
		logger.Warn("no api token configured; the backend will reject requests")
	}

	deps.API = rest.NewClient(rest.Options{
		BaseURL:   cfg.API.BaseURL,
		Token:     token,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		RateBurst: cfg.API.RateBurst,
		UserAgent: cfg.API.UserAgent,
	}, logger)
	deps.Customers = rest.NewCustomerRepository(deps.API)
	deps.Catalog = rest.NewCatalogRepository(deps.API)
	deps.Stocks = deps.Catalog

	if !cfg.Redis.Enabled {
		return deps, nil
	}

	logger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, stock cache disabled", slog.String("error", err.Error()))
		redisClient.Close()
		return deps, nil
	}
	deps.redisClient = redisClient

	deps.asynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	})
	deps.Refresher = queue.NewStockRefreshQueue(deps.asynqClient, cfg.Worker.UniqueFor, cfg.Asynq.RetryMax, logger)

	cache := redis_a.NewCache(redisClient, cfg.Redis.TTL, logger)
	deps.StockCache = redis_a.NewCachedStockRepository(deps.Catalog, cache, deps.Refresher, cfg.Redis.TTL, logger)
	deps.Stocks = deps.StockCache

	return deps, nil
}

// Close releases the Redis and asynq connections.
func (d *Dependencies) Close() {
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
}
