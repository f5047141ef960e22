package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/thereayou/anonchat/internal/database"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	DatabaseDriver string `envconfig:"DATABASE_DRIVER" default:"postgres"`
	DatabaseURL    string `envconfig:"DATABASE_URL" required:"true"`
	RedisURL       string `envconfig:"REDIS_URL" required:"true"`
	JWTSecret      string `envconfig:"JWT_SECRET" required:"true"`

	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	// SESSION_READ_THROUGH=false возвращает проверку только по кешу
	SessionReadThrough bool `envconfig:"SESSION_READ_THROUGH" default:"true"`

	MaxContentLength int `envconfig:"MAX_CONTENT_LENGTH" default:"2000"`
	ListMaxLimit     int `envconfig:"LIST_MAX_LIMIT" default:"200"`

	LogLevel   string `envconfig:"LOG_LEVEL" default:"INFO"`
	GinMode    string `envconfig:"GIN_MODE" default:"release"`
	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"http://localhost:3000"`
}

// LoadEnvFiles подгружает .env.local, затем .env. Отсутствие файлов не ошибка.
func LoadEnvFiles() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	// envconfig считает пустую, но заданную переменную присутствующей
	if c.DatabaseURL == "" || c.RedisURL == "" || c.JWTSecret == "" {
		return fmt.Errorf("config error: DATABASE_URL, REDIS_URL and JWT_SECRET are required")
	}
	switch c.DatabaseDriver {
	case database.DriverPostgres, database.DriverSQLite:
	default:
		return fmt.Errorf("config error: unknown DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config error: SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.MaxContentLength <= 0 {
		return fmt.Errorf("config error: MAX_CONTENT_LENGTH must be positive")
	}
	if c.ListMaxLimit <= 0 {
		return fmt.Errorf("config error: LIST_MAX_LIMIT must be positive")
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
