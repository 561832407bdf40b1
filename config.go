package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// Persistence and auth API consumed by the wizard and the dashboard.
	APIBaseURL      string        `env:"API_BASE_URL" envDefault:"http://127.0.0.1:8000/api"`
	APITimeout      time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
	BreakerFailures uint32        `env:"BREAKER_FAILURES" envDefault:"5"`
	BreakerOpenFor  time.Duration `env:"BREAKER_OPEN_FOR" envDefault:"30s"`

	SessionSecret string        `env:"SESSION_SECRET" envDefault:"change_me"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	SessionStore  string        `env:"SESSION_STORE" envDefault:"memory"` // memory | mongo
	SecureCookies bool          `env:"SECURE_COOKIES" envDefault:"false"`

	MongoURI string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB  string `env:"MONGO_DB" envDefault:"landcheck"`

	Locale      string   `env:"LOCALE" envDefault:"en"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string   `env:"LOG_FORMAT" envDefault:"json"` // json | text
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000"`
}

// loadConfig reads .env when present, then the environment.
func loadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	switch cfg.SessionStore {
	case "memory", "mongo":
	default:
		return cfg, fmt.Errorf("SESSION_STORE must be memory or mongo, got %q", cfg.SessionStore)
	}
	if cfg.SessionTTL <= 0 {
		return cfg, fmt.Errorf("SESSION_TTL must be positive")
	}
	return cfg, nil
}
