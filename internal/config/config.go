package config

import (
	"sync/atomic"
)

var configValue atomic.Value

func GetConfig() *Config {
	cfg, _ := configValue.Load().(*Config)
	if cfg == nil {
		return NewDefaultConfig()
	}
	return cfg
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string          `mapstructure:"version"`
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Provider    ProviderConfig  `mapstructure:"provider"`
	Locator     LocatorConfig   `mapstructure:"locator"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int             `mapstructure:"port"`
	Host         string          `mapstructure:"host"`
	ReadTimeout  int             `mapstructure:"read_timeout"`
	WriteTimeout int             `mapstructure:"write_timeout"`
	IdleTimeout  int             `mapstructure:"idle_timeout"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig limits inbound requests per client IP. RPS <= 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// ProviderConfig describes the upstream weather provider.
// An empty APIKey is valid and switches lookups to synthetic data.
type ProviderConfig struct {
	Type    string `mapstructure:"type"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout"`
}

// HasCredential reports whether live lookups are possible.
func (p ProviderConfig) HasCredential() bool {
	return p.APIKey != ""
}

type LocatorConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Timeout int    `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
			RateLimit: RateLimitConfig{
				RPS:   5,
				Burst: 10,
			},
		},
		Provider: ProviderConfig{
			Type:    "openweathermap",
			BaseURL: "https://api.openweathermap.org/data/2.5",
			APIKey:  "",
			Timeout: 10,
		},
		Locator: LocatorConfig{
			Enabled: true,
			URL:     "http://ip-api.com/json",
			Timeout: 10,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "tempo:4317",
		},
	}
}
