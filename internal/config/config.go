// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"atm-ledger/internal/domain"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	LogLevel  string
	LogFormat string
	Currency  string // Display label only; the ledger is single-currency
	Demo      DemoAccount
}

// DemoAccount describes the account seeded at startup.
type DemoAccount struct {
	Enabled  bool
	Username string
	PIN      string
	Balance  decimal.Decimal
}

// LoadConfig loads configuration from environment variables, reading a .env
// file first when one exists in the working directory.
// It returns an AppConfig instance or an error if any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds an AppConfig from the process environment only.
func FromEnv() (*AppConfig, error) {
	logLevel := getEnv("ATM_LOG_LEVEL", "warn")
	switch strings.ToLower(logLevel) {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid ATM_LOG_LEVEL %q", logLevel)
	}

	logFormat := getEnv("ATM_LOG_FORMAT", "json")
	switch strings.ToLower(logFormat) {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid ATM_LOG_FORMAT %q", logFormat)
	}

	currency := getEnv("ATM_CURRENCY", "SEK")

	seedDemo, err := strconv.ParseBool(getEnv("ATM_SEED_DEMO", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATM_SEED_DEMO: %w", err)
	}

	demoUsername := getEnv("ATM_DEMO_USERNAME", "user")
	demoPIN := getEnv("ATM_DEMO_PIN", "1234")
	demoBalanceStr := getEnv("ATM_DEMO_BALANCE", "1500.00")

	var demoBalance decimal.Decimal
	if seedDemo {
		if err := domain.ValidatePIN(demoPIN); err != nil {
			return nil, fmt.Errorf("invalid ATM_DEMO_PIN: %w", err)
		}
		demoBalance, err = decimal.NewFromString(demoBalanceStr)
		if err != nil {
			return nil, fmt.Errorf("invalid ATM_DEMO_BALANCE: %w", err)
		}
		if !demoBalance.IsPositive() {
			return nil, fmt.Errorf("invalid ATM_DEMO_BALANCE %q: must be positive", demoBalanceStr)
		}
	}

	return &AppConfig{
		LogLevel:  logLevel,
		LogFormat: logFormat,
		Currency:  currency,
		Demo: DemoAccount{
			Enabled:  seedDemo,
			Username: demoUsername,
			PIN:      demoPIN,
			Balance:  demoBalance,
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
