package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BUILDIN_API_KEY", "token")

	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		APIKey:      "token",
		BaseURL:     "https://api.buildin.ai",
		Endpoint:    "/mcp",
		Timeout:     30 * time.Second,
		PageSize:    100,
		Concurrency: 1,
		LogLevel:    "info",
	}, cfg)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BUILDIN_API_KEY", "token")
	t.Setenv("BUILDIN_BASE_URL", "http://localhost:9000")
	t.Setenv("BUILDIN_HTTP", ":8080")
	t.Setenv("BUILDIN_SSE", "true")
	t.Setenv("BUILDIN_PAGE_SIZE", "50")
	t.Setenv("BUILDIN_CONCURRENCY", "4")
	t.Setenv("BUILDIN_TIMEOUT", "5s")
	t.Setenv("BUILDIN_LOG_LEVEL", "DEBUG")

	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.BaseURL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.True(t, cfg.SSE)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadExplicitValuesWin(t *testing.T) {
	t.Setenv("BUILDIN_API_KEY", "from-env")

	v := viper.New()
	SetDefaults(v)
	v.Set(KeyAPIKey, "from-flag")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.APIKey)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			APIKey:      "token",
			BaseURL:     "https://api.buildin.ai",
			Endpoint:    "/mcp",
			PageSize:    100,
			Concurrency: 1,
			LogLevel:    "info",
		}
	}

	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"missing api key", func(c *Config) { c.APIKey = "" }, "BUILDIN_API_KEY"},
		{"relative base url", func(c *Config) { c.BaseURL = "api.buildin.ai" }, "invalid base url"},
		{"endpoint without slash", func(c *Config) { c.Endpoint = "mcp" }, "must start with /"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "timeout"},
		{"page size too large", func(c *Config) { c.PageSize = 101 }, "page size"},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, "concurrency"},
		{"unknown log level", func(c *Config) { c.LogLevel = "trace" }, "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	cfg := valid()
	assert.NoError(t, cfg.Validate())
}
