package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Tokolens"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host            string        `envconfig:"DB_HOST" default:"localhost"`
		Port            int           `envconfig:"DB_PORT" default:"5432"`
		User            string        `envconfig:"DB_USER" default:"postgres"`
		Password        string        `envconfig:"DB_PASSWORD" default:""`
		Name            string        `envconfig:"DB_NAME" default:"tokolens"`
		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	}

	Search struct {
		URL        string        `envconfig:"SEARCH_URL" default:"http://localhost:9200"`
		Timeout    time.Duration `envconfig:"SEARCH_TIMEOUT" default:"30s"`
		MaxRetries int           `envconfig:"SEARCH_MAX_RETRIES" default:"3"`
	}

	Redis struct {
		Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
		Password string `envconfig:"REDIS_PASSWORD" default:""`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
	}

	Mongo struct {
		URI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
		Database string `envconfig:"MONGO_DB" default:"tokolens"`
	}

	Auth struct {
		JWTSecret  string        `envconfig:"JWT_SECRET" default:"change-me"`
		AccessTTL  time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"15m"`
		RefreshTTL time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"168h"`
	}

	OAuth struct {
		GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
		GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
		GoogleRedirectURI  string `envconfig:"GOOGLE_REDIRECT_URI" default:"http://localhost:8080/api/auth/oauth/google/callback"`
		FrontendCallback   string `envconfig:"OAUTH_FRONTEND_CALLBACK" default:"http://localhost:5173/oauth-callback"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	// A missing .env is fine; deployments configure via the environment.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
