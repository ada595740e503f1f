// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"ATM_LOG_LEVEL", "ATM_LOG_FORMAT", "ATM_CURRENCY", "ATM_SEED_DEMO",
	"ATM_DEMO_USERNAME", "ATM_DEMO_PIN", "ATM_DEMO_BALANCE",
}

// clearEnv blanks every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "SEK", cfg.Currency)
	assert.True(t, cfg.Demo.Enabled)
	assert.Equal(t, "user", cfg.Demo.Username)
	assert.Equal(t, "1234", cfg.Demo.PIN)
	assert.Equal(t, "1500.00", cfg.Demo.Balance.StringFixed(2))
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ATM_LOG_LEVEL", "debug")
	t.Setenv("ATM_LOG_FORMAT", "text")
	t.Setenv("ATM_CURRENCY", "EUR")
	t.Setenv("ATM_DEMO_USERNAME", "demo")
	t.Setenv("ATM_DEMO_PIN", "0042")
	t.Setenv("ATM_DEMO_BALANCE", "99.95")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, "demo", cfg.Demo.Username)
	assert.Equal(t, "0042", cfg.Demo.PIN)
	assert.Equal(t, "99.95", cfg.Demo.Balance.StringFixed(2))
}

func TestFromEnvInvalid(t *testing.T) {
	cases := map[string]string{
		"ATM_LOG_LEVEL":    "loud",
		"ATM_LOG_FORMAT":   "xml",
		"ATM_SEED_DEMO":    "maybe",
		"ATM_DEMO_PIN":     "12a4",
		"ATM_DEMO_BALANCE": "-3",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			cfg, err := FromEnv()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), key)
			assert.Nil(t, cfg)
		})
	}
}

func TestFromEnvDemoDisabledSkipsDemoValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("ATM_SEED_DEMO", "false")
	t.Setenv("ATM_DEMO_PIN", "nope")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.False(t, cfg.Demo.Enabled)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadConfigReadsDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, so unset them.
	for _, k := range configKeys {
		require.NoError(t, os.Unsetenv(k))
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ATM_CURRENCY=NOK\nATM_SEED_DEMO=false\n"), 0o600))
	chdir(t, dir)
	t.Cleanup(func() {
		for _, k := range configKeys {
			_ = os.Unsetenv(k)
		}
	})

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "NOK", cfg.Currency)
	assert.False(t, cfg.Demo.Enabled)
}

func TestLoadConfigWithoutDotEnv(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "SEK", cfg.Currency)
}
