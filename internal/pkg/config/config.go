// internal/pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingRequiredConfig is returned when a required value is empty.
var ErrMissingRequiredConfig = errors.New("missing required configuration")

// Config holds all application configuration
type Config struct {
	// Application
	App AppConfig

	// Backend REST API
	API APIConfig

	// Terminal session
	POS POSConfig

	// Redis stock cache
	Redis RedisConfig

	// Asynq
	Asynq AsynqConfig

	// Background stock refresh
	Worker WorkerConfig

	// AWS
	AWS AWSConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `required:"true"`
	Environment string // development, staging, production
	Version     string
	LogLevel    string
	LogFormat   string // json, text
	LogFile     string
	Debug       bool
}

// APIConfig holds the backend client configuration
type APIConfig struct {
	BaseURL     string `required:"true"`
	Token       string
	TokenSecret string // Secrets Manager id holding the token
	TokenKey    string // key inside the secret JSON
	Timeout     time.Duration
	RateLimit   float64 // requests per second
	RateBurst   int
	UserAgent   string
}

// POSConfig holds terminal-session configuration
type POSConfig struct {
	StateFile string
	OutletID  int64 // overrides the state file when > 0
	ExportDir string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         string
	Password     string
	DB           int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
	TTL          time.Duration
}

// AsynqConfig holds Asynq configuration
type AsynqConfig struct {
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	Concurrency         int
	Queues              map[string]int // queue name -> priority
	StrictPriority      bool
	RetryMax            int
	ShutdownTimeout     time.Duration
	HealthCheckInterval time.Duration
}

// WorkerConfig holds the stock refresh worker configuration
type WorkerConfig struct {
	RefreshSchedule string // cron expression for the periodic refresh
	Outlets         []int64
	TaskTimeout     time.Duration
	UniqueFor       time.Duration
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region          string
	SecretsCacheTTL time.Duration
}

// Load loads configuration from environment variables and an optional
// pos.yaml in the working directory or $HOME/.erp-pos.
func Load(logger *slog.Logger) (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Load .env file in development
	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Warn("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		} else {
			logger.Info(".env file loaded successfully")
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigName("pos")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home + "/.erp-pos")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		logger.Info("config file loaded", slog.String("file", v.ConfigFileUsed()))
	}

	cfg := build(v, env)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func build(v *viper.Viper, env string) *Config {
	r := reader{v}

	redisHost := r.str("redis.host", "localhost")
	redisPort := r.str("redis.port", "6379")

	return &Config{
		App: AppConfig{
			Name:        r.str("app.name", "erp-pos"),
			Environment: env,
			Version:     r.str("app.version", "dev"),
			LogLevel:    r.str("log.level", "info"),
			LogFormat:   r.str("log.format", "text"),
			LogFile:     r.str("log.file", ""),
			Debug:       r.boolean("app.debug", env == "development"),
		},
		API: APIConfig{
			BaseURL:     strings.TrimRight(r.str("api.base_url", "http://localhost:8000/api"), "/"),
			Token:       r.str("api.token", ""),
			TokenSecret: r.str("api.token_secret", ""),
			TokenKey:    r.str("api.token_key", "token"),
			Timeout:     r.duration("api.timeout", 15*time.Second),
			RateLimit:   r.float("api.rate_limit", 10),
			RateBurst:   r.integer("api.rate_burst", 20),
			UserAgent:   r.str("api.user_agent", "erp-pos"),
		},
		POS: POSConfig{
			StateFile: r.str("pos.state_file", "pos_state.json"),
			OutletID:  int64(r.integer("pos.outlet_id", 0)),
			ExportDir: r.str("pos.export_dir", "."),
		},
		Redis: RedisConfig{
			Enabled:      r.boolean("redis.enabled", false),
			Host:         redisHost,
			Port:         redisPort,
			Password:     r.str("redis.password", ""),
			DB:           r.integer("redis.db", 0),
			MaxRetries:   r.integer("redis.max_retries", 3),
			DialTimeout:  r.duration("redis.dial_timeout", 5*time.Second),
			ReadTimeout:  r.duration("redis.read_timeout", 3*time.Second),
			WriteTimeout: r.duration("redis.write_timeout", 3*time.Second),
			PoolSize:     r.integer("redis.pool_size", 10),
			MinIdleConns: r.integer("redis.min_idle_conns", 2),
			TTL:          r.duration("redis.ttl", 5*time.Minute),
		},
		Asynq: AsynqConfig{
			RedisAddr:           fmt.Sprintf("%s:%s", redisHost, redisPort),
			RedisPassword:       r.str("redis.password", ""),
			RedisDB:             r.integer("asynq.redis_db", 0),
			Concurrency:         r.integer("asynq.concurrency", 4),
			Queues:              parseQueues(r.str("asynq.queues", "critical:6,default:3,low:1")),
			StrictPriority:      r.boolean("asynq.strict_priority", false),
			RetryMax:            r.integer("asynq.retry_max", 3),
			ShutdownTimeout:     r.duration("asynq.shutdown_timeout", 30*time.Second),
			HealthCheckInterval: r.duration("asynq.health_check_interval", 30*time.Second),
		},
		Worker: WorkerConfig{
			RefreshSchedule: r.str("worker.refresh_schedule", "@every 5m"),
			Outlets:         parseIDs(r.str("worker.outlets", "1")),
			TaskTimeout:     r.duration("worker.task_timeout", time.Minute),
			UniqueFor:       r.duration("worker.unique_for", 30*time.Second),
		},
		AWS: AWSConfig{
			Region:          r.str("aws.region", "us-east-1"),
			SecretsCacheTTL: r.duration("aws.secrets_cache_ttl", 5*time.Minute),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := (&BasicValidator{}).Validate(c); err != nil {
		return err
	}
	if c.IsProduction() {
		return (&ProductionValidator{}).Validate(c)
	}
	return nil
}

// RedisAddr returns host:port of the cache Redis
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

// Helper functions

// reader reads keys like "api.base_url" from the config file, or from the
// API_BASE_URL environment variable, which takes precedence.
type reader struct {
	v *viper.Viper
}

func (r reader) str(key, defaultValue string) string {
	if value := strings.TrimSpace(r.v.GetString(key)); value != "" {
		return value
	}
	return defaultValue
}

func (r reader) boolean(key string, defaultValue bool) bool {
	if value := r.str(key, ""); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func (r reader) integer(key string, defaultValue int) int {
	if value := r.str(key, ""); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

func (r reader) float(key string, defaultValue float64) float64 {
	if value := r.str(key, ""); value != "" {
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f
		}
	}
	return defaultValue
}

func (r reader) duration(key string, defaultValue time.Duration) time.Duration {
	if value := r.str(key, ""); value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}

func parseQueues(queuesStr string) map[string]int {
	queues := make(map[string]int)
	pairs := strings.Split(queuesStr, ",")
	for _, pair := range pairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			name := strings.TrimSpace(parts[0])
			priority, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err == nil {
				queues[name] = priority
			}
		}
	}
	if len(queues) == 0 {
		queues["default"] = 1
	}
	return queues
}

func parseIDs(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
