package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Ephemeris EphemerisConfig
	Geocoder  GeocoderConfig
	Tracing   TracingConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	RateLimitRPS   int
	AllowedOrigins []string
}

type EphemerisConfig struct {
	URL          string
	FetchTimeout time.Duration
	// RefreshInterval of zero fetches the feed once at startup only.
	RefreshInterval time.Duration
	// Required makes a failed startup fetch fatal instead of serving an
	// empty document.
	Required bool
}

type GeocoderConfig struct {
	Enabled   bool
	URL       string
	UserAgent string
	Timeout   time.Duration
}

type TracingConfig struct {
	Enabled     bool
	Exporter    string
	Endpoint    string
	ServiceName string
	SampleRatio float64
}

type LoggingConfig struct {
	Level string
}

const DefaultEphemerisURL = "https://nasa-public-data.s3.amazonaws.com/iss-coords/current/ISS_OEM/ISS.OEM_J2K_EPH.xml"

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvInt("SERVER_PORT", 5000),
			RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 5),
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Ephemeris: EphemerisConfig{
			URL:             getEnv("EPHEMERIS_URL", DefaultEphemerisURL),
			FetchTimeout:    getEnvDuration("EPHEMERIS_FETCH_TIMEOUT", 30*time.Second),
			RefreshInterval: getEnvDuration("EPHEMERIS_REFRESH_INTERVAL", 0),
			Required:        getEnvBool("EPHEMERIS_REQUIRED", false),
		},
		Geocoder: GeocoderConfig{
			Enabled:   getEnvBool("GEOCODER_ENABLED", true),
			URL:       getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
			UserAgent: getEnv("GEOCODER_USER_AGENT", "iss-tracker/1.0"),
			Timeout:   getEnvDuration("GEOCODER_TIMEOUT", 5*time.Second),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvBool("TRACING_ENABLED", false),
			Exporter:    strings.ToLower(getEnv("TRACING_EXPORTER", "stdout")),
			Endpoint:    getEnv("TRACING_ENDPOINT", ""),
			ServiceName: getEnv("TRACING_SERVICE_NAME", "iss-tracker"),
			SampleRatio: getEnvFloat("TRACING_SAMPLE_RATIO", 1.0),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimitRPS < 1 {
		return fmt.Errorf("rate limit must be at least 1 request per second")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Ephemeris.URL == "" {
		return fmt.Errorf("ephemeris URL is required")
	}
	if c.Ephemeris.FetchTimeout <= 0 {
		return fmt.Errorf("ephemeris fetch timeout must be positive")
	}
	if c.Ephemeris.RefreshInterval != 0 && c.Ephemeris.RefreshInterval < time.Minute {
		return fmt.Errorf("ephemeris refresh interval must be 0 or at least 1 minute")
	}

	if c.Geocoder.Enabled && c.Geocoder.Timeout <= 0 {
		return fmt.Errorf("geocoder timeout must be positive")
	}

	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing sample ratio must be between 0 and 1")
	}
	if c.Tracing.Enabled && c.Tracing.Exporter != "stdout" && c.Tracing.Exporter != "otlp" {
		return fmt.Errorf("unsupported tracing exporter: %s", c.Tracing.Exporter)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
