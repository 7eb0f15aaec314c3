// Package config loads the server settings from flags, environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "BUILDIN"

const (
	KeyAPIKey      = "api-key"
	KeyBaseURL     = "base-url"
	KeyHTTP        = "http"
	KeyEndpoint    = "endpoint"
	KeySSE         = "sse"
	KeyTimeout     = "timeout"
	KeyPageSize    = "page-size"
	KeyConcurrency = "concurrency"
	KeyLogLevel    = "log-level"
)

type Config struct {
	APIKey      string        // Buildin integration token
	BaseURL     string        // Buildin API base url
	HTTPAddr    string        // listen address, stdio transport when empty
	Endpoint    string        // MCP endpoint path for the HTTP transport
	SSE         bool          // mount the SSE side endpoints next to the MCP endpoint
	Timeout     time.Duration // timeout of a single API call
	PageSize    int           // page size for block children listings
	Concurrency int           // block children requests in flight per page fetch
	LogLevel    string
}

// SetDefaults registers the default values and binds the BUILDIN_* environment
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBaseURL, "https://api.buildin.ai")
	v.SetDefault(KeyEndpoint, "/mcp")
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyPageSize, 100)
	v.SetDefault(KeyConcurrency, 1)
	v.SetDefault(KeyLogLevel, "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		APIKey:      strings.TrimSpace(v.GetString(KeyAPIKey)),
		BaseURL:     strings.TrimSpace(v.GetString(KeyBaseURL)),
		HTTPAddr:    v.GetString(KeyHTTP),
		Endpoint:    v.GetString(KeyEndpoint),
		SSE:         v.GetBool(KeySSE),
		Timeout:     v.GetDuration(KeyTimeout),
		PageSize:    v.GetInt(KeyPageSize),
		Concurrency: v.GetInt(KeyConcurrency),
		LogLevel:    strings.ToLower(v.GetString(KeyLogLevel)),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.APIKey == "" {
		errs = append(errs, fmt.Errorf("%s_API_KEY environment variable is not set", EnvPrefix))
	}
	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid base url %q", c.BaseURL))
	}
	if !strings.HasPrefix(c.Endpoint, "/") {
		errs = append(errs, fmt.Errorf("endpoint %q must start with /", c.Endpoint))
	}
	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout must not be negative"))
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		errs = append(errs, fmt.Errorf("page size %d out of range 1..100", c.PageSize))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency %d must be at least 1", c.Concurrency))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}
