package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCredentials(t *testing.T) {
	t.Setenv("CONSUMER_KEY", "ck")
	t.Setenv("CONSUMER_SECRET", "cs")
	t.Setenv("ACCESS_TOKEN", "at")
	t.Setenv("ACCESS_TOKEN_SECRET", "ats")
}

func TestLoad(t *testing.T) {
	setCredentials(t)
	t.Setenv("STATE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "redis://cache:6379/2")
	t.Setenv("FETCH_DELAY", "90s")
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("API_BASE_URL", "http://localhost:9999/1.1/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "ck", cfg.Credentials.ConsumerKey)
	assert.Equal(t, BackendRedis, cfg.State.Backend)
	assert.Equal(t, "redis://cache:6379/2", cfg.Redis.Addr)
	assert.Equal(t, 90*time.Second, cfg.Crawl.FetchDelay)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "http://localhost:9999/1.1", cfg.API.BaseURL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	// 验证默认值
	assert.Equal(t, "https://api.twitter.com/1.1", cfg.API.BaseURL)
	assert.Equal(t, BackendFile, cfg.State.Backend)
	assert.Equal(t, "data.json", cfg.State.File)
	assert.Equal(t, "default", cfg.State.Name)
	assert.Equal(t, 60*time.Second, cfg.Crawl.FetchDelay)
	assert.Equal(t, 1*time.Second, cfg.Crawl.LookupDelay)
	assert.Equal(t, 60*time.Second, cfg.Crawl.RestartBackoff)
	assert.Equal(t, ":28081", cfg.HTTP.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Monitoring.Enabled)
}

func TestLoad_ZeroDelay(t *testing.T) {
	t.Setenv("LOOKUP_DELAY", "0s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.Crawl.LookupDelay)
}

func TestValidate(t *testing.T) {
	creds := CredentialsConfig{ConsumerKey: "a", ConsumerSecret: "b", AccessToken: "c", AccessTokenSecret: "d"}

	tests := []struct {
		name      string
		cfg       *Config
		wantError bool
	}{
		{
			name:      "valid file backend",
			cfg:       &Config{Credentials: creds, State: StateConfig{Backend: BackendFile, File: "data.json"}},
			wantError: false,
		},
		{
			name:      "missing credentials",
			cfg:       &Config{State: StateConfig{Backend: BackendFile, File: "data.json"}},
			wantError: true,
		},
		{
			name:      "postgres without dsn",
			cfg:       &Config{Credentials: creds, State: StateConfig{Backend: BackendPostgres}},
			wantError: true,
		},
		{
			name: "postgres with valid dsn",
			cfg: &Config{Credentials: creds, State: StateConfig{Backend: BackendPostgres},
				Postgres: PostgresConfig{DSN: "postgres://u:p@localhost:5432/blockedby"}},
			wantError: false,
		},
		{
			name: "postgres dsn without database",
			cfg: &Config{Credentials: creds, State: StateConfig{Backend: BackendPostgres},
				Postgres: PostgresConfig{DSN: "postgres://u:p@localhost:5432"}},
			wantError: true,
		},
		{
			name:      "unknown backend",
			cfg:       &Config{Credentials: creds, State: StateConfig{Backend: "s3"}},
			wantError: true,
		},
		{
			name: "negative delay",
			cfg: &Config{
				Credentials: creds,
				State:       StateConfig{Backend: BackendFile, File: "data.json"},
				Crawl:       CrawlConfig{FetchDelay: -time.Second},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateState_WithoutCredentials(t *testing.T) {
	cfg := &Config{State: StateConfig{Backend: BackendSQLite, SQLitePath: "x.db"}}
	assert.NoError(t, cfg.ValidateState())
	assert.Error(t, cfg.Validate())
}
