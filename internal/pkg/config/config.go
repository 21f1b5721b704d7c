package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT   JWTConfig
	Mongo MongoConfig
	Redis RedisConfig

	// AuditWorkers sizes the audit dispatcher worker pool.
	AuditWorkers int `env:"AUDIT_WORKERS, default=4"`
}

type JWTConfig struct {
	// Secret signs access tokens; RefreshSecret signs refresh tokens.
	// They must differ so possession of one token never implies the other's
	// signing material.
	Secret        string `env:"JWT_SECRET,         default=dev-secret"`
	ExpiresIn     string `env:"JWT_EXPIRES_IN,     default=15m"`
	RefreshSecret string `env:"JWT_REFRESH_SECRET, default=dev-refresh-secret"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=conectar"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
// Built once in main and injected; core logic never reads ambient env state.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
