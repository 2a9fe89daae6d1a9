package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultSandboxURL    = "https://devo.finnet.co.id/pg/payment/card/initiate"
	defaultProductionURL = "https://live.finnet.co.id/pg/payment/card/initiate"

	// Seconds the outbound initiation call may take before it is aborted.
	defaultRequestTimeout = 30
)

type Environment string

const (
	EnvSandbox    Environment = "sandbox"
	EnvProduction Environment = "production"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	// Finpay gateway settings. Exactly one environment is active per
	// process; credentials of the other pair are carried but unused.
	FinpayEnv                Environment
	SandboxURL               string
	ProductionURL            string
	MerchantIDSandbox        string
	MerchantSecretSandbox    string
	MerchantIDProduction     string
	MerchantSecretProduction string
	RequestTimeout           time.Duration

	// PublicBaseURL is where the gateway reaches this service back.
	// ShopBaseURL is the storefront the shopper is sent to.
	PublicBaseURL string
	ShopBaseURL   string
}

// Credentials is the environment-resolved triple used for one initiation
// or one notification check.
type Credentials struct {
	BaseURL        string
	MerchantID     string
	MerchantSecret string
}

// Resolve selects the credential pair and endpoint for the configured
// environment. Missing values come back as empty strings rather than an
// error, matching the gateway plugin's permissive defaults.
func (c *Config) Resolve() Credentials {
	if c.FinpayEnv == EnvProduction {
		return Credentials{
			BaseURL:        c.ProductionURL,
			MerchantID:     c.MerchantIDProduction,
			MerchantSecret: c.MerchantSecretProduction,
		}
	}
	return Credentials{
		BaseURL:        c.SandboxURL,
		MerchantID:     c.MerchantIDSandbox,
		MerchantSecret: c.MerchantSecretSandbox,
	}
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),

		FinpayEnv:                Environment(getEnv("FINPAY_ENV", string(EnvSandbox))),
		SandboxURL:               getEnv("FINPAY_SANDBOX_URL", defaultSandboxURL),
		ProductionURL:            getEnv("FINPAY_PRODUCTION_URL", defaultProductionURL),
		MerchantIDSandbox:        os.Getenv("FINPAY_MERCHANT_ID_SANDBOX"),
		MerchantSecretSandbox:    os.Getenv("FINPAY_MERCHANT_SECRET_SANDBOX"),
		MerchantIDProduction:     os.Getenv("FINPAY_MERCHANT_ID_PRODUCTION"),
		MerchantSecretProduction: os.Getenv("FINPAY_MERCHANT_SECRET_PRODUCTION"),
		RequestTimeout:           time.Duration(getEnvInt("FINPAY_TIMEOUT", defaultRequestTimeout)) * time.Second,

		PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),
		ShopBaseURL:   os.Getenv("SHOP_BASE_URL"),
	}

	if cfg.FinpayEnv != EnvSandbox && cfg.FinpayEnv != EnvProduction {
		log.Fatalf("FINPAY_ENV must be %q or %q, got %q", EnvSandbox, EnvProduction, cfg.FinpayEnv)
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
