package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Pricing  PricingConfig
	MinIO    MinIOConfig
	Push     PushConfig
	Jobs     JobConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  int // minutes
	RefreshTokenExpiry int // hours
}

// PricingConfig carries the order pricing constants. The engine reads
// them from here so the fee schedule is deployable configuration, not code.
type PricingConfig struct {
	CODFee                decimal.Decimal // flat fee for small COD orders
	CODFeeThreshold       decimal.Decimal // subtotal at or above which COD is free
	DefaultCommissionRate decimal.Decimal // percentage for newly registered shops
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // base URL for serving stored objects
}

type PushConfig struct {
	Provider     string // mock, fcm
	FCMServerKey string
}

type JobConfig struct {
	CouponSweepBatchSize int
	StockReconcileBatch  int
}

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Marketplace API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "marketplace"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenExpiry:  getEnvInt("JWT_ACCESS_EXPIRY", 15),  // 15 minutes
			RefreshTokenExpiry: getEnvInt("JWT_REFRESH_EXPIRY", 72), // 3 days
		},
		Pricing: PricingConfig{
			CODFee:                getEnvDecimal("PRICING_COD_FEE", "50.00"),
			CODFeeThreshold:       getEnvDecimal("PRICING_COD_FEE_THRESHOLD", "500.00"),
			DefaultCommissionRate: getEnvDecimal("PRICING_DEFAULT_COMMISSION_RATE", "15.00"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "marketplace"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			PublicURL: getEnv("MINIO_PUBLIC_URL", "http://localhost:9000"),
		},
		Push: PushConfig{
			Provider:     getEnv("PUSH_PROVIDER", "mock"),
			FCMServerKey: getEnv("FCM_SERVER_KEY", ""),
		},
		Jobs: JobConfig{
			CouponSweepBatchSize: getEnvInt("JOB_COUPON_SWEEP_BATCH", 500),
			StockReconcileBatch:  getEnvInt("JOB_STOCK_RECONCILE_BATCH", 500),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks critical configuration
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Push.Provider == "fcm" && c.Push.FCMServerKey == "" {
			return fmt.Errorf("FCM_SERVER_KEY must be set when PUSH_PROVIDER=fcm")
		}
	}

	if c.Pricing.CODFee.IsNegative() || c.Pricing.CODFeeThreshold.IsNegative() {
		return fmt.Errorf("COD fee settings must not be negative")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}
	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		value, _ = decimal.NewFromString(defaultValue)
	}
	return value
}
