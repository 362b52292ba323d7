package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// CompanyID scopes invoice number sequences; single-tenant deployments
	// leave the default.
	CompanyID string

	// SaleRetryAttempts bounds the optimistic-conflict retry loop in the sale
	// coordinator. The legacy behavior was 2, which is thin under contention.
	SaleRetryAttempts int

	// AllocRetryAttempts bounds the invoice-number allocation retry loop.
	AllocRetryAttempts int

	// AllowNegativeStock lets sales drive stock below zero without a
	// per-request override.
	AllowNegativeStock bool

	// RateLimit is a ulule/limiter formatted rate, e.g. "300-M".
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("COMPANY_ID", "main")
	viper.SetDefault("SALE_RETRY_ATTEMPTS", 3)
	viper.SetDefault("ALLOC_RETRY_ATTEMPTS", 6)
	viper.SetDefault("ALLOW_NEGATIVE_STOCK", false)
	viper.SetDefault("RATE_LIMIT", "300-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.CompanyID = viper.GetString("COMPANY_ID")

	cfg.SaleRetryAttempts = viper.GetInt("SALE_RETRY_ATTEMPTS")
	if cfg.SaleRetryAttempts < 1 {
		log.Printf("Warning: SALE_RETRY_ATTEMPTS %d is invalid. Defaulting to 3.\n", cfg.SaleRetryAttempts)
		cfg.SaleRetryAttempts = 3
	}

	cfg.AllocRetryAttempts = viper.GetInt("ALLOC_RETRY_ATTEMPTS")
	if cfg.AllocRetryAttempts < 1 {
		log.Printf("Warning: ALLOC_RETRY_ATTEMPTS %d is invalid. Defaulting to 6.\n", cfg.AllocRetryAttempts)
		cfg.AllocRetryAttempts = 6
	}

	cfg.AllowNegativeStock = viper.GetBool("ALLOW_NEGATIVE_STOCK")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
