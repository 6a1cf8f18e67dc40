package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Weather WeatherConfig `yaml:"weather"`
	Tracing TracingConfig `yaml:"tracing"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	CORSOrigins  []string        `yaml:"corsOrigins"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// WeatherConfig describes the upstream forecast provider.
// The credential is not part of it: APIKeyEnv names the variable read on every request.
type WeatherConfig struct {
	BaseURL      string        `yaml:"baseUrl"`
	APIKeyEnv    string        `yaml:"apiKeyEnv"`
	Timeout      time.Duration `yaml:"timeout"`
	ForecastDays int           `yaml:"forecastDays"`
	CacheMaxAge  time.Duration `yaml:"cacheMaxAge"`
}

// TracingConfig toggles OpenTelemetry export.
type TracingConfig struct {
	Enabled        bool   `yaml:"enabled"`
	ServiceName    string `yaml:"serviceName"`
	ZipkinEndpoint string `yaml:"zipkinEndpoint"`
}

// Load reads configuration from a YAML file and environment variables.
// A .env file, when present, is loaded into the process environment first.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func loadDotEnv() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}
	// Variables already present in the environment win over the file.
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("PORT"); v != "" && os.Getenv("HTTP_ADDRESS") == "" {
		cfg.HTTP.Address = ":" + v
	}
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("WEATHER_API_BASE_URL"); v != "" {
		cfg.Weather.BaseURL = v
	}
	if v := os.Getenv("WEATHER_API_KEY_ENV"); v != "" {
		cfg.Weather.APIKeyEnv = v
	}
	if v := os.Getenv("WEATHER_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Weather.Timeout = parsed
		}
	}
	if v := os.Getenv("WEATHER_CACHE_MAX_AGE"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Weather.CacheMaxAge = parsed
		}
	}
	if v := os.Getenv("TRACING_ENABLED"); v != "" {
		cfg.Tracing.Enabled = parseBool(v)
	}
	if v := os.Getenv("TRACING_SERVICE_NAME"); v != "" {
		cfg.Tracing.ServiceName = v
	}
	if v := os.Getenv("ZIPKIN_ENDPOINT"); v != "" {
		cfg.Tracing.ZipkinEndpoint = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 20 * time.Second,
			CORSOrigins:  []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		Weather: WeatherConfig{
			BaseURL:      "https://api.weatherapi.com/v1",
			APIKeyEnv:    "WEATHER_API_KEY",
			Timeout:      15 * time.Second,
			ForecastDays: 7,
			CacheMaxAge:  10 * time.Minute,
		},
		Tracing: TracingConfig{
			Enabled:        false,
			ServiceName:    "weather-dashboard",
			ZipkinEndpoint: "http://localhost:9411/api/v2/spans",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if strings.TrimSpace(c.Weather.BaseURL) == "" {
		return errors.New("weather.baseUrl cannot be empty")
	}
	if strings.TrimSpace(c.Weather.APIKeyEnv) == "" {
		return errors.New("weather.apiKeyEnv cannot be empty")
	}
	if c.Weather.Timeout <= 0 {
		return errors.New("weather.timeout must be positive")
	}
	if c.Weather.ForecastDays <= 0 {
		return errors.New("weather.forecastDays must be positive")
	}
	if c.Weather.CacheMaxAge < 0 {
		return errors.New("weather.cacheMaxAge cannot be negative")
	}
	if c.HTTP.WriteTimeout > 0 && c.HTTP.WriteTimeout <= c.Weather.Timeout {
		return errors.New("http.writeTimeout must exceed weather.timeout")
	}
	if c.Tracing.Enabled && strings.TrimSpace(c.Tracing.ZipkinEndpoint) == "" {
		return errors.New("tracing.zipkinEndpoint cannot be empty when tracing is enabled")
	}
	return nil
}
