package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort         string
	FrontendURL        string
	StorageDriver      string
	StorageDSN         string
	AIProvider         string
	AIModel            string
	AIBaseURL          string
	GeminiKey          string
	OpenAIKey          string
	PaymentProvider    string
	StripeSecretKey    string
	PremiumPriceCents  int64
	PremiumCurrency    string
	CaptureSink        string
	CaptureDSN         string
	RabbitMQURL        string
	RedisURL           string
	RateLimit          string
	DisplayTimezone    string
	Location           *time.Location
	EnableHSTS         bool
	OTELEnabled        bool
	OTELEndpoint       string
	ServerDebugMode    bool
	WorkspaceCacheSize int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
		StorageDriver:      getEnv("STORAGE_DRIVER", "sqlite"),
		StorageDSN:         getEnv("STORAGE_DSN", "roda.db"),
		AIProvider:         getEnv("AI_PROVIDER", "gemini"),
		AIModel:            getEnv("AI_MODEL", ""),
		AIBaseURL:          getEnv("AI_BASE_URL", ""),
		GeminiKey:          getEnv("GEMINI_API_KEY", ""),
		OpenAIKey:          getEnv("OPENAI_API_KEY", ""),
		PaymentProvider:    getEnv("PAYMENT_PROVIDER", "mock"),
		StripeSecretKey:    getEnv("STRIPE_SECRET_KEY", ""),
		PremiumPriceCents:  int64(getEnvInt("PREMIUM_PRICE_CENTS", 799)),
		PremiumCurrency:    getEnv("PREMIUM_CURRENCY", "brl"),
		CaptureSink:        getEnv("CAPTURE_SINK", "log"),
		CaptureDSN:         getEnv("CAPTURE_DSN", ""),
		RabbitMQURL:        getEnv("RABBITMQ_URL", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		RateLimit:          getEnv("RATE_LIMIT", "20-M"),
		DisplayTimezone:    getEnv("DISPLAY_TIMEZONE", "America/Sao_Paulo"),
		EnableHSTS:         getEnvBool("ENABLE_HSTS", false),
		OTELEnabled:        getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServerDebugMode:    getEnvBool("SERVER_DEBUG_MODE", false),
		WorkspaceCacheSize: getEnvInt("WORKSPACE_CACHE_SIZE", 256),
	}

	switch cfg.StorageDriver {
	case "memory", "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	if cfg.StorageDriver == "postgres" && os.Getenv("STORAGE_DSN") == "" {
		return nil, fmt.Errorf("STORAGE_DSN is required for the postgres storage driver")
	}

	switch cfg.AIProvider {
	case "gemini", "openai", "static":
	default:
		return nil, fmt.Errorf("unsupported AI_PROVIDER %q", cfg.AIProvider)
	}

	switch cfg.PaymentProvider {
	case "mock":
	case "stripe":
		if cfg.StripeSecretKey == "" {
			return nil, fmt.Errorf("STRIPE_SECRET_KEY is required for the stripe payment provider")
		}
	default:
		return nil, fmt.Errorf("unsupported PAYMENT_PROVIDER %q", cfg.PaymentProvider)
	}
	if cfg.PremiumPriceCents <= 0 {
		return nil, fmt.Errorf("PREMIUM_PRICE_CENTS must be positive")
	}

	switch cfg.CaptureSink {
	case "log":
	case "postgres", "sqlite":
		if cfg.CaptureDSN == "" {
			return nil, fmt.Errorf("CAPTURE_DSN is required for the %s capture sink", cfg.CaptureSink)
		}
	case "rabbitmq":
		if cfg.RabbitMQURL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL is required for the rabbitmq capture sink")
		}
	default:
		return nil, fmt.Errorf("unsupported CAPTURE_SINK %q", cfg.CaptureSink)
	}

	loc, err := time.LoadLocation(cfg.DisplayTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	return cfg, nil
}

// AIKey returns the API key for the configured provider
func (c *Config) AIKey() string {
	switch c.AIProvider {
	case "openai":
		return c.OpenAIKey
	case "gemini":
		return c.GeminiKey
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
