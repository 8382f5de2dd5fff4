package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/currency"
)

type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendPostgres Backend = "postgres"
	BackendRedis    Backend = "redis"
)

type Config struct {
	HTTPAddr string
	LogLevel string

	StorefrontURL      string
	StorefrontCurrency currency.Unit
	LookupTimeout      time.Duration
	StockCheckOnAdd    bool

	CartSlot    string
	CartBackend Backend
	DatabaseURL string
	RedisAddr   string
}

// Load reads the configuration from the environment. Variables in envFiles
// (default ".env", skipped when absent) never override the real environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("godotenv.Load: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, fmt.Errorf("godotenv.Load: %w", err)
	}

	timeout, err := getEnvDuration("LOOKUP_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}

	stockCheck, err := getEnvBool("STOCK_CHECK_ON_ADD", false)
	if err != nil {
		return Config{}, err
	}

	code := getEnv("STOREFRONT_CURRENCY", "BRL")
	unit, err := currency.ParseISO(code)
	if err != nil {
		return Config{}, fmt.Errorf("STOREFRONT_CURRENCY[%s] is not valid: %w", code, err)
	}

	cfg := Config{
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StorefrontURL:      getEnv("STOREFRONT_URL", "http://localhost:3333"),
		StorefrontCurrency: unit,
		LookupTimeout:      timeout,
		StockCheckOnAdd:    stockCheck,

		CartSlot:    getEnv("CART_SLOT", "rocketshoes:cart"),
		CartBackend: Backend(strings.ToLower(getEnv("CART_BACKEND", string(BackendMemory)))),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.LookupTimeout < 0 {
		return fmt.Errorf("LOOKUP_TIMEOUT must not be negative")
	}
	if strings.TrimSpace(c.CartSlot) == "" {
		return fmt.Errorf("CART_SLOT is required")
	}

	switch c.CartBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
	default:
		return fmt.Errorf("CART_BACKEND[%s] is not supported", c.CartBackend)
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func getEnvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}
