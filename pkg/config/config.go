package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "configs/config.yaml"

type Config struct {
	Rex       RexConfig       `yaml:"rex"`
	Server    ServerConfig    `yaml:"server"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

type RexConfig struct {
	BaseURL     string        `yaml:"base_url" validate:"required,url"`
	Email       string        `yaml:"email"`
	Password    string        `yaml:"password"`
	Application string        `yaml:"application" validate:"required"`
	Timeout     time.Duration `yaml:"timeout" validate:"gte=0"`
}

type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0,lte=65535"`
}

// RedisConfig holds the settings for the optional describe cache.
type RedisConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Host        string        `yaml:"host" validate:"required_if=Enabled true"`
	Port        int           `yaml:"port" validate:"gt=0,lte=65535"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db" validate:"gte=0"`
	TLSEnabled  bool          `yaml:"tls_enabled"`
	TLSCertFile string        `yaml:"tls_cert_file"`
	DescribeTTL time.Duration `yaml:"describe_ttl" validate:"gte=0"`
}

// Addr is the host:port pair for the Redis client.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type RateLimitConfig struct {
	PerMinute int `yaml:"per_minute" validate:"gt=0"`
	Burst     int `yaml:"burst" validate:"gt=0"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=DEBUG INFO ERROR"`
}

// HasCredentials reports whether a Rex email and password are configured.
func (c *Config) HasCredentials() bool {
	return c.Rex.Email != "" && c.Rex.Password != ""
}

// Path returns CONFIG_PATH or the default location.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// LoadConfig reads the YAML file at path (a missing file is not an error), applies
// environment overrides and defaults, then validates the result.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %v", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %v", err)
	}
	if cfg.Redis.Enabled && cfg.Redis.TLSEnabled && cfg.Redis.TLSCertFile != "" {
		if _, err := os.Stat(cfg.Redis.TLSCertFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("TLS certificate file does not exist: %s", cfg.Redis.TLSCertFile)
		}
	}

	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("REX_BASE_URL"); v != "" {
		cfg.Rex.BaseURL = v
	}
	// EMAIL/PASSWORD are the names used by older .env files.
	if v := firstEnv("REX_EMAIL", "EMAIL"); v != "" {
		cfg.Rex.Email = v
	}
	if v := firstEnv("REX_PASSWORD", "PASSWORD"); v != "" {
		cfg.Rex.Password = v
	}
	if v := os.Getenv("REX_APPLICATION"); v != "" {
		cfg.Rex.Application = v
	}
	if v := os.Getenv("REX_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid REX_TIMEOUT value: %v", err)
		}
		cfg.Rex.Timeout = d
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT value: %v", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		cfg.Redis.Enabled = v == "true"
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_PORT value: %v", err)
		}
		cfg.Redis.Port = port
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB value: %v", err)
		}
		cfg.Redis.DB = db
	}
	if v := os.Getenv("REDIS_TLS_ENABLED"); v != "" {
		cfg.Redis.TLSEnabled = v == "true"
	}
	if v := os.Getenv("REDIS_TLS_CERT_FILE"); v != "" {
		cfg.Redis.TLSCertFile = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToUpper(v)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Rex.BaseURL == "" {
		cfg.Rex.BaseURL = "https://api.rexsoftware.com/v1/rex"
	}
	if cfg.Rex.Application == "" {
		cfg.Rex.Application = "rex"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.DescribeTTL == 0 {
		cfg.Redis.DescribeTTL = 5 * time.Minute
	}
	if cfg.RateLimit.PerMinute == 0 {
		cfg.RateLimit.PerMinute = 100
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 10
	}
	cfg.Log.Level = strings.ToUpper(cfg.Log.Level)
	if cfg.Log.Level == "" {
		cfg.Log.Level = "INFO"
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
