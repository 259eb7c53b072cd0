package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration settings.
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	RatingService RatingServiceConfig `yaml:"rating_service"`
	RoleDirectory RoleDirectoryConfig `yaml:"role_directory"`
	Sweep         SweepConfig         `yaml:"sweep"`
	HTTP          HTTPConfig          `yaml:"http"`
	JWT           JWTConfig           `yaml:"jwt"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL      string `yaml:"url"`
	NKeySeed string `yaml:"nkey_seed"`
}

// RatingServiceConfig holds the rating provider client configuration.
type RatingServiceConfig struct {
	BaseURL string `yaml:"base_url"`
	// OAuth client credentials; anonymous access is used when empty.
	TokenURL     string `yaml:"token_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	// Redis snapshot cache; disabled when the address is empty.
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
}

// RoleDirectoryConfig holds the role directory client configuration.
type RoleDirectoryConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
	// MutationsPerSecond and MutationBurst bound role mutations per guild.
	MutationsPerSecond float64 `yaml:"mutations_per_second"`
	MutationBurst      int     `yaml:"mutation_burst"`
}

// SweepConfig holds the periodic sweep configuration.
type SweepConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// HTTPConfig holds the ops/admin HTTP server configuration.
type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// JWTConfig holds admin API token configuration.
type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// ObservabilityConfig holds configuration for observability components.
type ObservabilityConfig struct {
	Environment  string `yaml:"environment"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	LogLevel     string `yaml:"log_level"`
}

// LoadConfig loads the configuration from a YAML file, falling back to
// environment variables when the file is absent. Environment variables
// override file values either way.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is not set (config file %q or DATABASE_URL)", filename)
	}
	if cfg.NATS.URL == "" {
		return nil, fmt.Errorf("NATS URL is not set (config file %q or NATS_URL)", filename)
	}

	if cfg.Sweep.Interval <= 0 {
		cfg.Sweep.Interval = 6 * time.Hour
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.JWT.DefaultTTL <= 0 {
		cfg.JWT.DefaultTTL = 24 * time.Hour
	}
	if cfg.RatingService.CacheTTL <= 0 {
		cfg.RatingService.CacheTTL = 15 * time.Minute
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("NATS_NKEY_SEED"); v != "" {
		cfg.NATS.NKeySeed = v
	}
	if v := os.Getenv("RATING_SERVICE_URL"); v != "" {
		cfg.RatingService.BaseURL = v
	}
	if v := os.Getenv("RATING_SERVICE_TOKEN_URL"); v != "" {
		cfg.RatingService.TokenURL = v
	}
	if v := os.Getenv("RATING_SERVICE_CLIENT_ID"); v != "" {
		cfg.RatingService.ClientID = v
	}
	if v := os.Getenv("RATING_SERVICE_CLIENT_SECRET"); v != "" {
		cfg.RatingService.ClientSecret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RatingService.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RatingService.RedisPassword = v
	}
	if v := os.Getenv("RATING_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RatingService.CacheTTL = d
		}
	}
	if v := os.Getenv("ROLE_DIRECTORY_URL"); v != "" {
		cfg.RoleDirectory.BaseURL = v
	}
	if v := os.Getenv("ROLE_DIRECTORY_TOKEN"); v != "" {
		cfg.RoleDirectory.Token = v
	}
	if v := os.Getenv("ROLE_MUTATIONS_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RoleDirectory.MutationsPerSecond = f
		}
	}
	if v := os.Getenv("ROLE_MUTATION_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RoleDirectory.MutationBurst = n
		}
	}
	if v := os.Getenv("SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Sweep.Interval = d
		}
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("JWT_DEFAULT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.JWT.DefaultTTL = d
		}
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("OTLP_ENDPOINT"); v != "" {
		cfg.Observability.OTLPEndpoint = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
}
