package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,       default=8080"`
	Env       string        `env:"ENV,        default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL,    default=24h"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`

	Mongo     MongoConfig
	Redis     RedisConfig
	Biometric BiometricConfig
	Anomaly   AnomalyConfig

	AdminEmail    string `env:"ADMIN_EMAIL,    default=admin@votingsystem.com"`
	AdminPassword string `env:"ADMIN_PASSWORD, default=admin123"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=voting_system"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type BiometricConfig struct {
	Threshold float64       `env:"BIOMETRIC_THRESHOLD, default=0.6"`
	Timeout   time.Duration `env:"BIOMETRIC_TIMEOUT,   default=5s"`
	Workers   int           `env:"BIOMETRIC_WORKERS,   default=4"`
}

type AnomalyConfig struct {
	Contamination float64 `env:"ANOMALY_CONTAMINATION, default=0.1"`
	Trees         int     `env:"ANOMALY_TREES,         default=100"`
	Seed          int64   `env:"ANOMALY_SEED,          default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
