package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DBHost        string `envconfig:"DB_HOST" required:"true"`
	DBUser        string `envconfig:"DB_USER"`
	DBPassword    string `envconfig:"DB_PASSWORD"`
	DBName        string `envconfig:"DB_NAME"`
	DBPort        string `envconfig:"DB_PORT" default:"5432"`
	DBPingRetries uint64 `envconfig:"DB_PING_RETRIES" default:"3"`

	AppPort string `envconfig:"APP_PORT" default:"8080"`
	AppEnv  string `envconfig:"APP_ENV" default:"development"`

	// JWTSecret signs the customer tokens accepted by the checkout endpoint.
	JWTSecret         string `envconfig:"JWT_SECRET"`
	InternalSecretKey string `envconfig:"INTERNAL_SECRET_KEY"`

	SBPHTTPTimeout time.Duration `envconfig:"SBP_HTTP_TIMEOUT" default:"15s"`
	WebhookTimeout time.Duration `envconfig:"WEBHOOK_TIMEOUT" default:"10s"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal("Environment variables not loaded properly: ", err)
	}
	return cfg
}
