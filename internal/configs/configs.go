package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"account-pool-system.com/account-pool-system/internal/constants"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	QueueMemory = "memory"
	QueueRedis  = "redis"
)

type Config struct {
	AppHost                string `yaml:"app_host"`
	AppPort                string `yaml:"app_port"`
	StoreDriver            string `yaml:"store_driver"`
	DatabaseDSN            string `yaml:"database_dsn"`
	QueueBackend           string `yaml:"queue_backend"`
	RedisHost              string `yaml:"redis_host"`
	RedisPort              string `yaml:"redis_port"`
	RedisQueueKey          string `yaml:"redis_queue_key"`
	BatchSize              int    `yaml:"batch_size"`
	AccountPrefix          string `yaml:"account_prefix"`
	ReplenishStrategy      string `yaml:"replenish_strategy"`
	ReleasePendingOnStart  bool   `yaml:"release_pending_on_start"`
	RateLimit              int    `yaml:"rate_limit_per_minute"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
	LogLevel               string `yaml:"log_level"`
	LogFormat              string `yaml:"log_format"`
	LogFile                string `yaml:"log_file"`
}

func Default() Config {
	return Config{
		AppHost:                "127.0.0.1",
		AppPort:                "8080",
		StoreDriver:            DriverSQLite,
		DatabaseDSN:            "accounts.db",
		QueueBackend:           QueueMemory,
		RedisHost:              "127.0.0.1",
		RedisPort:              "6379",
		RedisQueueKey:          "account_ready_queue",
		BatchSize:              10,
		AccountPrefix:          "2200",
		ReplenishStrategy:      string(constants.StrategyClaim),
		ReleasePendingOnStart:  true,
		RateLimit:              60,
		ShutdownTimeoutSeconds: 20,
		LogLevel:               "info",
		LogFormat:              "json",
	}
}

// Load layers defaults, the optional YAML file at path and the environment,
// in that order, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) AppURL() string {
	return fmt.Sprintf("%s:%s", c.AppHost, c.AppPort)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func (c Config) Validate() error {
	if c.AppHost == "" || c.AppPort == "" {
		return fmt.Errorf("APP_HOST and APP_PORT must not be empty (e.g. 127.0.0.1:8080)")
	}
	if c.StoreDriver != DriverSQLite && c.StoreDriver != DriverPostgres {
		return fmt.Errorf("STORE_DRIVER must be %q or %q: given %q", DriverSQLite, DriverPostgres, c.StoreDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN must not be empty")
	}
	if c.QueueBackend != QueueMemory && c.QueueBackend != QueueRedis {
		return fmt.Errorf("QUEUE_BACKEND must be %q or %q: given %q", QueueMemory, QueueRedis, c.QueueBackend)
	}
	if c.QueueBackend == QueueRedis && c.RedisQueueKey == "" {
		return fmt.Errorf("REDIS_QUEUE_KEY must not be empty")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("ACCOUNT_BATCH_SIZE must be greater than 0")
	}
	if c.AccountPrefix == "" || !isDigits(c.AccountPrefix) {
		return fmt.Errorf("ACCOUNT_PREFIX must be a non-empty string of digits: given %q", c.AccountPrefix)
	}
	if !constants.ReplenishStrategy(c.ReplenishStrategy).Valid() {
		return fmt.Errorf("REPLENISH_STRATEGY must be %q or %q: given %q",
			constants.StrategyClaim, constants.StrategyFind, c.ReplenishStrategy)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if c.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.AppHost = getEnv("APP_HOST", cfg.AppHost)
	cfg.AppPort = getEnv("APP_PORT", cfg.AppPort)
	cfg.StoreDriver = getEnv("STORE_DRIVER", cfg.StoreDriver)
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.QueueBackend = getEnv("QUEUE_BACKEND", cfg.QueueBackend)
	cfg.RedisHost = getEnv("REDIS_HOST", cfg.RedisHost)
	cfg.RedisPort = getEnv("REDIS_PORT", cfg.RedisPort)
	cfg.RedisQueueKey = getEnv("REDIS_QUEUE_KEY", cfg.RedisQueueKey)
	cfg.AccountPrefix = getEnv("ACCOUNT_PREFIX", cfg.AccountPrefix)
	cfg.ReplenishStrategy = getEnv("REPLENISH_STRATEGY", cfg.ReplenishStrategy)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)

	var err error
	if cfg.BatchSize, err = getEnvAsInt("ACCOUNT_BATCH_SIZE", cfg.BatchSize); err != nil {
		return err
	}
	if cfg.RateLimit, err = getEnvAsInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimit); err != nil {
		return err
	}
	if cfg.ShutdownTimeoutSeconds, err = getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", cfg.ShutdownTimeoutSeconds); err != nil {
		return err
	}
	if cfg.ReleasePendingOnStart, err = getEnvAsBool("RELEASE_PENDING_ON_START", cfg.ReleasePendingOnStart); err != nil {
		return err
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) (int, error) {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid integer value for %s", key)
		}
		return i, nil
	}
	return defaultVal, nil
}

func getEnvAsBool(key string, defaultVal bool) (bool, error) {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("invalid boolean value for %s", key)
		}
		return b, nil
	}
	return defaultVal, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
