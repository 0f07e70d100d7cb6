// internal/pkg/config/config_test.go
package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NavodaLakshika/erp-frontend/internal/pkg/config"
	"github.com/NavodaLakshika/erp-frontend/test/helpers"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := config.Load(helpers.TestLogger())
	require.NoError(t, err)

	assert.Equal(t, "erp-pos", cfg.App.Name)
	assert.Equal(t, "test", cfg.App.Environment)
	assert.Equal(t, "http://localhost:8000/api", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "pos_state.json", cfg.POS.StateFile)
	assert.Equal(t, []int64{1}, cfg.Worker.Outlets)
	assert.Equal(t, 6, cfg.Asynq.Queues["critical"])
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("API_BASE_URL", "https://erp.example.com/api/")
	t.Setenv("API_RATE_LIMIT", "2.5")
	t.Setenv("POS_OUTLET_ID", "4")
	t.Setenv("WORKER_OUTLETS", "1, 2,x,3")
	t.Setenv("REDIS_TTL", "90s")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := config.Load(helpers.TestLogger())
	require.NoError(t, err)

	assert.Equal(t, "https://erp.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 2.5, cfg.API.RateLimit)
	assert.Equal(t, int64(4), cfg.POS.OutletID)
	assert.Equal(t, []int64{1, 2, 3}, cfg.Worker.Outlets)
	assert.Equal(t, 90*time.Second, cfg.Redis.TTL)
	assert.True(t, cfg.Redis.Enabled)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*config.Config)
		wantErr   error
		errSubstr string
	}{
		{
			name:   "valid_test_config",
			modify: func(c *config.Config) {},
		},
		{
			name:    "missing_base_url",
			modify:  func(c *config.Config) { c.API.BaseURL = "" },
			wantErr: config.ErrMissingRequiredConfig,
		},
		{
			name:      "relative_base_url",
			modify:    func(c *config.Config) { c.API.BaseURL = "/api" },
			errSubstr: "absolute URL",
		},
		{
			name:      "zero_rate_limit",
			modify:    func(c *config.Config) { c.API.RateLimit = 0 },
			errSubstr: "rate_limit",
		},
		{
			name: "production_without_token",
			modify: func(c *config.Config) {
				c.App.Environment = "production"
				c.App.Debug = false
				c.API.BaseURL = "https://erp.example.com/api"
			},
			wantErr: config.ErrMissingRequiredConfig,
		},
		{
			name: "production_with_secret",
			modify: func(c *config.Config) {
				c.App.Environment = "production"
				c.App.Debug = false
				c.API.BaseURL = "https://erp.example.com/api"
				c.API.TokenSecret = "pos/api"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := helpers.LoadTestConfig()
			tt.modify(cfg)

			err := cfg.Validate()

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errSubstr != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestState_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos_state.json")

	missing, err := config.LoadState(path)
	require.NoError(t, err)
	assert.Empty(t, missing.OutletID)

	require.NoError(t, config.SaveState(path, &config.ClientState{OutletID: "3", UserID: "12"}))

	loaded, err := config.LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, "3", loaded.OutletID)
	assert.Equal(t, "12", loaded.UserID)
	assert.Equal(t, int64(12), config.ResolveUserID(loaded))
}

func TestState_NumericValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"outlet_id": 7, "user_id": 2}`), 0o600))

	state, err := config.LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), config.ResolveOutletID(nil, state))
}

func TestResolveOutletID(t *testing.T) {
	withOverride := helpers.LoadTestConfig()
	withOverride.POS.OutletID = 9

	tests := []struct {
		name  string
		cfg   *config.Config
		state *config.ClientState
		want  int64
	}{
		{name: "config_override_wins", cfg: withOverride, state: &config.ClientState{OutletID: "3"}, want: 9},
		{name: "stored_outlet", cfg: helpers.LoadTestConfig(), state: &config.ClientState{OutletID: "3"}, want: 3},
		{name: "absent_defaults_to_one", cfg: helpers.LoadTestConfig(), state: &config.ClientState{}, want: 1},
		{name: "garbage_defaults_to_one", cfg: helpers.LoadTestConfig(), state: &config.ClientState{OutletID: "main"}, want: 1},
		{name: "zero_defaults_to_one", cfg: nil, state: &config.ClientState{OutletID: "0"}, want: 1},
		{name: "nil_state", cfg: nil, state: nil, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, config.ResolveOutletID(tt.cfg, tt.state))
		})
	}
}

type fakeSecretsAPI struct {
	calls  int
	secret string
	err    error
}

func (f *fakeSecretsAPI) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput,
	optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(f.secret)}, nil
}

func TestResolveAPIToken(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit_token_skips_secrets", func(t *testing.T) {
		api := &fakeSecretsAPI{secret: `{"token":"from-secret"}`}
		sm := config.NewAWSSecretsManagerWithClient(api, "pos/api", time.Minute, helpers.TestLogger())

		cfg := helpers.LoadTestConfig()
		cfg.API.Token = "explicit"
		cfg.API.TokenSecret = "pos/api"

		token, err := config.ResolveAPIToken(ctx, cfg, sm)
		require.NoError(t, err)
		assert.Equal(t, "explicit", token)
		assert.Zero(t, api.calls)
	})

	t.Run("token_from_secret_is_cached", func(t *testing.T) {
		api := &fakeSecretsAPI{secret: `{"token":"from-secret"}`}
		sm := config.NewAWSSecretsManagerWithClient(api, "pos/api", time.Minute, helpers.TestLogger())

		cfg := helpers.LoadTestConfig()
		cfg.API.TokenSecret = "pos/api"

		token, err := config.ResolveAPIToken(ctx, cfg, sm)
		require.NoError(t, err)
		assert.Equal(t, "from-secret", token)

		token, err = config.ResolveAPIToken(ctx, cfg, sm)
		require.NoError(t, err)
		assert.Equal(t, "from-secret", token)
		assert.Equal(t, 1, api.calls)
	})

	t.Run("token_from_environment", func(t *testing.T) {
		t.Setenv("POS_SECRET_TOKEN", "from-env")
		cfg := helpers.LoadTestConfig()
		cfg.API.Token = ""

		token, err := config.ResolveAPIToken(ctx, cfg, config.NewEnvSecretsManager("POS_SECRET_"))
		require.NoError(t, err)
		assert.Equal(t, "from-env", token)
	})

	t.Run("missing_token_is_empty", func(t *testing.T) {
		t.Setenv("POS_SECRET_TOKEN", "")
		cfg := helpers.LoadTestConfig()
		cfg.API.Token = ""

		token, err := config.ResolveAPIToken(ctx, cfg, config.NewEnvSecretsManager("POS_SECRET_"))
		require.NoError(t, err)
		assert.Empty(t, token)

		api := &fakeSecretsAPI{secret: `{"other":"x"}`}
		cfg.API.TokenSecret = "pos/api"
		token, err = config.ResolveAPIToken(ctx, cfg, config.NewAWSSecretsManagerWithClient(api, "pos/api", time.Minute, helpers.TestLogger()))
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("secret_failure", func(t *testing.T) {
		api := &fakeSecretsAPI{err: errors.New("access denied")}
		sm := config.NewAWSSecretsManagerWithClient(api, "pos/api", time.Minute, helpers.TestLogger())

		cfg := helpers.LoadTestConfig()
		cfg.API.TokenSecret = "pos/api"

		_, err := config.ResolveAPIToken(ctx, cfg, sm)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access denied")
	})
}
