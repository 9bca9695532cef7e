package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/ulule/limiter/v3"
)

const (
	BackendLocal    = "local"
	BackendTemporal = "temporal"
)

type Config struct {
	App       App
	HTTP      HTTP
	Log       Log
	Temporal  Temporal
	Redis     Redis
	Weather   Weather
	RateLimit RateLimit
}

type App struct {
	Name    string `env:"APP_NAME" env-default:"flight-booking"`
	Backend string `env:"BOOKING_BACKEND" env-default:"local"`
}

type HTTP struct {
	Port            string        `env:"API_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"30s"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"`
	File   string `env:"LOG_FILE"`
}

type Temporal struct {
	Host      string `env:"TEMPORAL_HOST" env-default:"localhost:7233"`
	Namespace string `env:"TEMPORAL_NAMESPACE" env-default:"default"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// Enabled reports whether a Redis server is configured
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

type Weather struct {
	BaseURL  string        `env:"WEATHER_BASE_URL" env-default:"https://wttr.in"`
	Timeout  time.Duration `env:"WEATHER_TIMEOUT" env-default:"10s"`
	CacheTTL time.Duration `env:"WEATHER_CACHE_TTL" env-default:"1h"`
}

type RateLimit struct {
	// limiter formatted rate, e.g. "100-M" for 100 requests per minute
	Rate string `env:"RATE_LIMIT" env-default:"100-M"`
}

// Load loads configuration from environment variables only.
func Load() (*Config, error) {
	return LoadWithFile("")
}

// LoadWithFile loads an optional .env file, then reads the environment.
func LoadWithFile(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.HTTP.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("API_PORT must be between 1 and 65535, got: %s", c.HTTP.Port))
	}
	if c.App.Backend != BackendLocal && c.App.Backend != BackendTemporal {
		problems = append(problems, fmt.Sprintf("BOOKING_BACKEND must be %q or %q, got: %s", BackendLocal, BackendTemporal, c.App.Backend))
	}
	if c.App.Backend == BackendTemporal && c.Temporal.Host == "" {
		problems = append(problems, "TEMPORAL_HOST is required for the temporal backend")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		problems = append(problems, fmt.Sprintf("LOG_FORMAT must be json or text, got: %s", c.Log.Format))
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"HTTP_READ_TIMEOUT", c.HTTP.ReadTimeout},
		{"HTTP_WRITE_TIMEOUT", c.HTTP.WriteTimeout},
		{"HTTP_IDLE_TIMEOUT", c.HTTP.IdleTimeout},
		{"HTTP_SHUTDOWN_TIMEOUT", c.HTTP.ShutdownTimeout},
		{"WEATHER_TIMEOUT", c.Weather.Timeout},
		{"WEATHER_CACHE_TTL", c.Weather.CacheTTL},
	}
	for _, d := range durations {
		if d.value <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if c.Weather.BaseURL == "" {
		problems = append(problems, "WEATHER_BASE_URL cannot be empty")
	}
	if _, err := limiter.NewRateFromFormatted(c.RateLimit.Rate); err != nil {
		problems = append(problems, fmt.Sprintf("RATE_LIMIT is invalid: %v", err))
	}

	if len(problems) > 0 {
		msg := "configuration validation failed:\n"
		for i, p := range problems {
			msg += fmt.Sprintf("  %d. %s\n", i+1, p)
		}
		return errors.New(msg)
	}
	return nil
}
