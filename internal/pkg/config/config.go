package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET, default=change-me"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Session  SessionConfig
	Upstream UpstreamConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
}

type SessionConfig struct {
	// Store selects the token store: "redis" or "memory".
	Store string        `env:"SESSION_STORE, default=redis"`
	TTL   time.Duration `env:"SESSION_TTL,   default=24h"`
}

type UpstreamConfig struct {
	UserURL  string        `env:"USER_SERVICE_URL,  default=http://localhost:8000"`
	OrderURL string        `env:"ORDER_SERVICE_URL, default=http://localhost:8001"`
	AdminURL string        `env:"ADMIN_SERVICE_URL, default=http://localhost:8002"`
	Timeout  time.Duration `env:"UPSTREAM_TIMEOUT,  default=10s"`
	// APIKey is sent as X-API-Key on the unpaid-balance listing.
	APIKey string `env:"USER_SERVICE_API_KEY"`
	// FanOut bounds the concurrent per-item requests of one page.
	FanOut int `env:"UPSTREAM_FANOUT, default=8"`
}

type MongoConfig struct {
	// URI is optional; without it the audit trail goes to the log.
	URI      string        `env:"MONGO_URI"`
	Database string        `env:"MONGO_DB,      default=meal_portal"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,  default=5s"`
}

type RabbitMQConfig struct {
	// URL is optional; without it no billing events are consumed.
	URL        string `env:"RABBITMQ_URL"`
	Exchange   string `env:"RABBITMQ_EXCHANGE,    default=notifications"`
	RoutingKey string `env:"RABBITMQ_ROUTING_KEY, default=billing.notification"`
	Queue      string `env:"RABBITMQ_QUEUE,       default=mealportal.billing"`
	Workers    int    `env:"NOTIFICATION_WORKERS, default=4"`
}

// Load reads a .env file when present, then configuration from environment
// variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadContext(context.Background(), ".env")
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadContext is Load with explicit dotenv files. Missing files are ignored;
// variables already set in the environment win.
func LoadContext(ctx context.Context, dotenv ...string) (*Config, error) {
	for _, f := range dotenv {
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	if cfg.Session.Store != "redis" && cfg.Session.Store != "memory" {
		return nil, fmt.Errorf("SESSION_STORE must be redis or memory, got %q", cfg.Session.Store)
	}
	return &cfg, nil
}

// Development reports whether the service runs in the development environment.
func (c *Config) Development() bool {
	return c.Env == "development"
}
