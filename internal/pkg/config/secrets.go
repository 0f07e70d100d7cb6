// internal/pkg/config/secrets.go
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// ErrSecretNotFound is returned when a secret source has no value for a key.
var ErrSecretNotFound = errors.New("secret not found")

// SecretsManager resolves named secrets.
type SecretsManager interface {
	GetSecret(ctx context.Context, key string) (string, error)
}

// SecretsAPI is the subset of the Secrets Manager client in use.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSecretsManager implements AWS Secrets Manager integration
type AWSSecretsManager struct {
	client     SecretsAPI
	secretName string
	cache      map[string]string
	cacheMu    sync.RWMutex
	lastFetch  time.Time
	ttl        time.Duration
	logger     *slog.Logger
}

var _ SecretsManager = (*AWSSecretsManager)(nil)

// NewAWSSecretsManager creates a new AWS Secrets Manager client
func NewAWSSecretsManager(ctx context.Context, region, secretName string, ttl time.Duration, logger *slog.Logger) (*AWSSecretsManager, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewAWSSecretsManagerWithClient(secretsmanager.NewFromConfig(cfg), secretName, ttl, logger), nil
}

// NewAWSSecretsManagerWithClient wraps an existing client.
func NewAWSSecretsManagerWithClient(client SecretsAPI, secretName string, ttl time.Duration, logger *slog.Logger) *AWSSecretsManager {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AWSSecretsManager{
		client:     client,
		secretName: secretName,
		cache:      make(map[string]string),
		ttl:        ttl,
		logger:     logger.With(slog.String("component", "secrets")),
	}
}

// GetSecret retrieves a single secret
func (sm *AWSSecretsManager) GetSecret(ctx context.Context, key string) (string, error) {
	secrets, err := sm.fetch(ctx, []string{key})
	if err != nil {
		return "", err
	}

	val, ok := secrets[key]
	if !ok {
		return "", fmt.Errorf("%w: key %s in %s", ErrSecretNotFound, key, sm.secretName)
	}

	return val, nil
}

// fetch returns the requested keys, reading the secret again once the cache expires.
func (sm *AWSSecretsManager) fetch(ctx context.Context, keys []string) (map[string]string, error) {
	// Check cache first
	sm.cacheMu.RLock()
	if time.Since(sm.lastFetch) < sm.ttl && len(sm.cache) > 0 {
		cached := make(map[string]string)
		for _, key := range keys {
			if val, ok := sm.cache[key]; ok {
				cached[key] = val
			}
		}
		sm.cacheMu.RUnlock()

		if len(cached) == len(keys) {
			sm.logger.Debug("returning cached secrets")
			return cached, nil
		}
	} else {
		sm.cacheMu.RUnlock()
	}

	sm.logger.Info("fetching secrets from AWS Secrets Manager",
		slog.String("secret_name", sm.secretName))

	result, err := sm.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(sm.secretName),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret value: %w", err)
	}
	if result.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", sm.secretName)
	}

	var secretData map[string]string
	if err := json.Unmarshal([]byte(*result.SecretString), &secretData); err != nil {
		return nil, fmt.Errorf("failed to parse secret JSON: %w", err)
	}

	sm.cacheMu.Lock()
	sm.cache = secretData
	sm.lastFetch = time.Now()
	sm.cacheMu.Unlock()

	filtered := make(map[string]string)
	for _, key := range keys {
		if val, ok := secretData[key]; ok {
			filtered[key] = val
		} else {
			sm.logger.Warn("secret key not found in AWS Secrets Manager",
				slog.String("key", key))
		}
	}

	return filtered, nil
}

// EnvSecretsManager reads secrets from environment variables named
// prefix + upper-cased key, e.g. POS_SECRET_TOKEN for "token".
type EnvSecretsManager struct {
	prefix string
}

var _ SecretsManager = (*EnvSecretsManager)(nil)

// NewEnvSecretsManager creates an environment-backed secrets source.
func NewEnvSecretsManager(prefix string) *EnvSecretsManager {
	return &EnvSecretsManager{prefix: prefix}
}

// GetSecret retrieves a secret from the environment
func (em *EnvSecretsManager) GetSecret(_ context.Context, key string) (string, error) {
	name := em.prefix + strings.ToUpper(key)
	val := os.Getenv(name)
	if val == "" {
		return "", fmt.Errorf("%w: environment variable %s not set", ErrSecretNotFound, name)
	}
	return val, nil
}

// ResolveAPIToken returns the configured token, or looks up api.token_key in
// sm. A missing token is not an error; the backend answers 401 and the
// client reports it.
func ResolveAPIToken(ctx context.Context, cfg *Config, sm SecretsManager) (string, error) {
	if cfg.API.Token != "" || sm == nil {
		return cfg.API.Token, nil
	}

	token, err := sm.GetSecret(ctx, cfg.API.TokenKey)
	switch {
	case errors.Is(err, ErrSecretNotFound):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("failed to resolve api token: %w", err)
	}
	return token, nil
}
