package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	// SiteURL is the public base URL of the shop, used to build the
	// Mollie redirect and webhook URLs. Trailing slash is stripped.
	SiteURL  string
	LogLevel string

	Database DatabaseConfig
	SMTP     SMTPConfig
	Mollie   MollieConfig
	PayPal   PayPalConfig
	Bank     BankConfig

	// AdminKey is the shared secret for the admin order listing
	// (X-Admin-Key header). Empty disables the endpoint.
	AdminKey string
	// AdminEmail receives internal order notifications and payment alerts.
	// Falls back to SMTP user when unset.
	AdminEmail string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	// SSL true means implicit TLS (port 465).
	SSL      bool
	FromName string
}

// MollieConfig is used for the hosted-redirect checkout (create payment,
// fetch payment status).
type MollieConfig struct {
	APIKey  string
	BaseURL string // e.g. https://api.mollie.com
}

// PayPalConfig is used for the in-page button flow (capture an approved
// PayPal order server-side).
type PayPalConfig struct {
	BaseURL      string // e.g. https://api-m.paypal.com
	ClientID     string
	ClientSecret string
}

// BankConfig holds the transfer details printed into Vorkasse
// instruction mails.
type BankConfig struct {
	Recipient string
	BankName  string
	IBAN      string
	BIC       string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SMTP_PORT", 465)
	viper.SetDefault("MOLLIE_BASE_URL", "https://api.mollie.com")
	viper.SetDefault("PAYPAL_API_BASE", "https://api-m.sandbox.paypal.com")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		SiteURL:     strings.TrimSuffix(getEnvOrViper("SITE_URL", "http://localhost:3000"), "/"),
		LogLevel:    getEnvOrViper("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "shop"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		SMTP: SMTPConfig{
			Host:     strings.TrimSpace(getEnvOrViper("SMTP_HOST", "")),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     strings.TrimSpace(getEnvOrViper("SMTP_USER", "")),
			Password: getEnvOrViper("SMTP_PASS", ""),
			SSL:      getEnvOrViper("SMTP_SECURE", "true") == "true",
			FromName: getEnvOrViper("SMTP_FROM_NAME", "4aCe Shop"),
		},
		Mollie: MollieConfig{
			APIKey:  strings.TrimSpace(getEnvOrViper("MOLLIE_API_KEY", "")),
			BaseURL: strings.TrimSuffix(getEnvOrViper("MOLLIE_BASE_URL", "https://api.mollie.com"), "/"),
		},
		PayPal: PayPalConfig{
			BaseURL:      strings.TrimSuffix(getEnvOrViper("PAYPAL_API_BASE", ""), "/"),
			ClientID:     strings.TrimSpace(getEnvOrViper("PAYPAL_CLIENT_ID", "")),
			ClientSecret: strings.TrimSpace(getEnvOrViper("PAYPAL_CLIENT_SECRET", "")),
		},
		Bank: BankConfig{
			Recipient: getEnvOrViper("VORKASSE_EMPFAENGER", "4aCe Publishing"),
			BankName:  getEnvOrViper("VORKASSE_BANKNAME", ""),
			IBAN:      getEnvOrViper("VORKASSE_IBAN", ""),
			BIC:       getEnvOrViper("VORKASSE_BIC", ""),
		},
		AdminKey:   strings.TrimSpace(getEnvOrViper("ADMIN_KEY", "")),
		AdminEmail: strings.TrimSpace(getEnvOrViper("SHOP_ADMIN_EMAIL", "")),
	}

	if cfg.AdminEmail == "" {
		cfg.AdminEmail = cfg.SMTP.User
	}

	// Validate required fields
	if cfg.Mollie.APIKey == "" {
		return nil, fmt.Errorf("MOLLIE_API_KEY is required")
	}
	if cfg.PayPal.ClientID == "" || cfg.PayPal.ClientSecret == "" {
		return nil, fmt.Errorf("PAYPAL_CLIENT_ID and PAYPAL_CLIENT_SECRET are required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
