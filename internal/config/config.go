package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	// Environment: "dev", "development", or "production"
	AppEnv string `env:"APP_ENV" envDefault:"production"`

	// Database
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Redis
	RedisURL string `env:"REDIS_URL,required"`

	// JWT Configuration
	JWTHS256Secret      string `env:"JWT_HS256_SECRET,required"` // HMAC secret shared with the identity service
	JWTIssuer           string `env:"JWT_ISSUER" envDefault:"praxis-identity"`
	JWTClockSkewSeconds int    `env:"JWT_CLOCK_SKEW_SECONDS" envDefault:"60"`

	// Authorization cache
	AuthzCacheTTLSeconds int `env:"AUTHZ_CACHE_TTL_SECONDS" envDefault:"30"`
	AuthzCacheMaxEntries int `env:"AUTHZ_CACHE_MAX_ENTRIES" envDefault:"10000"`
	ViolationBufferSize  int `env:"TENANT_VIOLATION_BUFFER_SIZE" envDefault:"256"`

	// OpenTelemetry
	OTELEnabled          bool    `env:"OTEL_ENABLED" envDefault:"true"`
	OTELExporterEndpoint string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	OTELServiceName      string  `env:"OTEL_SERVICE_NAME" envDefault:"praxis-api"`
	OTELSamplingRatio    float64 `env:"OTEL_SAMPLING_RATIO" envDefault:"0.1"`

	// Prometheus scrape endpoint. Empty token leaves /metrics open, which is
	// only acceptable behind a private network.
	MetricsToken string `env:"METRICS_TOKEN"`

	// Server
	Port string `env:"PORT" envDefault:"3002"`

	// Rate Limiting
	RateLimitPerTenantPerMin int `env:"RATE_LIMIT_PER_TENANT_PER_MIN" envDefault:"100"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate performs custom validation on the configuration
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.JWTHS256Secret == "" {
		return fmt.Errorf("JWT_HS256_SECRET is required")
	}

	if c.JWTClockSkewSeconds < 0 {
		return fmt.Errorf("JWT_CLOCK_SKEW_SECONDS must be non-negative")
	}

	if c.AuthzCacheTTLSeconds <= 0 {
		return fmt.Errorf("AUTHZ_CACHE_TTL_SECONDS must be positive")
	}

	if c.AuthzCacheMaxEntries <= 0 {
		return fmt.Errorf("AUTHZ_CACHE_MAX_ENTRIES must be positive")
	}

	if c.ViolationBufferSize <= 0 {
		return fmt.Errorf("TENANT_VIOLATION_BUFFER_SIZE must be positive")
	}

	if c.OTELSamplingRatio < 0 || c.OTELSamplingRatio > 1 {
		return fmt.Errorf("OTEL_SAMPLING_RATIO must be between 0 and 1")
	}

	if c.RateLimitPerTenantPerMin <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_TENANT_PER_MIN must be positive")
	}

	return nil
}

// TelemetryEnabled reports whether the OTLP exporters should be started.
func (c *Config) TelemetryEnabled() bool {
	return c.OTELEnabled && c.OTELExporterEndpoint != ""
}
