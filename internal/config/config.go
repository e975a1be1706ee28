package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/garnizeh/scribe/pkg/webhook"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Addr           string         `yaml:"addr"`
	Env            string         `yaml:"env"`
	LogLevel       string         `yaml:"log_level"`
	APITimeout     time.Duration  `yaml:"timeout"`
	JWTSecret      string         `yaml:"jwt_secret"`
	JWTAlgorithm   string         `yaml:"jwt_algorithm"`
	TokenDuration  time.Duration  `yaml:"token_duration"`
	DatabaseDriver string         `yaml:"database_driver"`
	DatabaseDSN    string         `yaml:"database_dsn"`
	MigrateOnStart bool           `yaml:"migrate_on_start"`
	BcryptCost     int            `yaml:"bcrypt_cost"`
	Webhook        webhook.Config `yaml:"webhook"`
}

// insecureSecrets are rejected outside development.
var insecureSecrets = map[string]bool{
	"supersecretkey": true,
	"secret":         true,
	"changeme":       true,
	"your-secret":    true,
}

// LoadConfig builds defaults from SCRIBE_* environment variables and then
// applies the YAML file at path, if any.
func LoadConfig(path string) (*Config, error) {
	tokenDuration := 30 * time.Minute
	if v := os.Getenv("SCRIBE_ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SCRIBE_ACCESS_TOKEN_EXPIRE_MINUTES: %w", err)
		}
		tokenDuration = time.Duration(minutes) * time.Minute
	}

	wh := webhook.DefaultConfig()
	wh.URL = os.Getenv("SCRIBE_WEBHOOK_URL")

	cfg := &Config{
		Addr:           getEnv("SCRIBE_ADDR", ":8080"),
		Env:            getEnv("SCRIBE_ENV", EnvDevelopment),
		LogLevel:       getEnv("SCRIBE_LOG_LEVEL", "info"),
		APITimeout:     15 * time.Second,
		JWTSecret:      os.Getenv("SCRIBE_JWT_SECRET"),
		JWTAlgorithm:   getEnv("SCRIBE_JWT_ALGORITHM", "HS256"),
		TokenDuration:  tokenDuration,
		DatabaseDriver: getEnv("SCRIBE_DATABASE_DRIVER", "sqlite"),
		DatabaseDSN:    getEnv("SCRIBE_DATABASE_DSN", "scribe.db"),
		MigrateOnStart: true,
		Webhook:        wh,
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	return cfg, nil
}

// Validate fails fast on settings the server cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("jwt_secret is required (set SCRIBE_JWT_SECRET)")
	}
	if insecureSecrets[c.JWTSecret] && c.Env != EnvDevelopment {
		return fmt.Errorf("jwt_secret is a well-known insecure value; only allowed in %s", EnvDevelopment)
	}

	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported jwt_algorithm %q", c.JWTAlgorithm)
	}

	if c.TokenDuration <= 0 {
		return fmt.Errorf("token_duration must be positive, got %s", c.TokenDuration)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.APITimeout)
	}

	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database_driver %q", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return errors.New("database_dsn is required")
	}

	if c.Webhook.URL != "" {
		u, err := url.ParseRequestURI(c.Webhook.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("invalid webhook.url %q", c.Webhook.URL)
		}
	}
	if c.Webhook.Timeout <= 0 {
		c.Webhook.Timeout = webhook.DefaultConfig().Timeout
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// IsProduction reports whether error details must be withheld from clients.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// ParseLevel maps a log_level value onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
