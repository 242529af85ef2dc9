package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	TokenTTL           time.Duration `env:"TOKEN_TTL,            default=24h"`
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT, default=30m"`

	// CredentialSource selects the principal store: "demo" or "mongo".
	CredentialSource string `env:"CREDENTIAL_SOURCE, default=demo"`
	// AuditSink selects where auth events land: "log" or "mongo".
	AuditSink    string `env:"AUDIT_SINK,    default=log"`
	AuditWorkers int    `env:"AUDIT_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=insurance_portal"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// ErrMissingSecret aborts startup: issuing tokens with a built-in fallback
// secret would make every deployment forgeable.
var ErrMissingSecret = errors.New("config: JWT_SECRET must be set")

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}
	return &cfg, nil
}
