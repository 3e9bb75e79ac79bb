package config

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedEnv = []string{
	"MARKET_APP_NAME",
	"MARKET_APP_ENV",
	"MARKET_APP_PORT",
	"MARKET_DATABASE_HOST",
	"MARKET_DATABASE_PORT",
	"MARKET_DATABASE_PASSWORD",
	"MARKET_DATABASE_SSLMODE",
	"MARKET_DATABASE_MAX_OPEN_CONNS",
	"MARKET_DATABASE_MAX_IDLE_CONNS",
	"MARKET_CHECKOUT_MERCHANT_CONCURRENCY",
	"MARKET_CHECKOUT_CALCULATION_TIMEOUT",
	"MARKET_CHECKOUT_ZONE_SELECTION",
	"MARKET_CATALOG_BASE_URL",
	"MARKET_TAX_MODE",
	"MARKET_TAX_FLAT_RATE",
	"MARKET_TAX_BASE_URL",
	"MARKET_SHIPPING_CACHE_BACKEND",
	"MARKET_SHIPPING_CACHE_TTL",
	"MARKET_TELEMETRY_SAMPLING_RATIO",
	"MARKET_TELEMETRY_DB_LOG_FULL_SQL",
}

// isolateEnv saves and clears the managed variables and restores them when the test ends
func isolateEnv(t *testing.T) func() {
	t.Helper()
	original := make(map[string]string, len(managedEnv))
	for _, k := range managedEnv {
		original[k] = os.Getenv(k)
	}
	t.Cleanup(func() {
		for k, v := range original {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	})
	return func() {
		for _, k := range managedEnv {
			os.Unsetenv(k)
		}
	}
}

func TestLoad(t *testing.T) {
	clearEnv := isolateEnv(t)

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "marketplace-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "marketplace", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())

		assert.Equal(t, 4, cfg.Checkout.MerchantConcurrency)
		assert.Equal(t, 10*time.Second, cfg.Checkout.CalculationTimeout)
		assert.Equal(t, 3*time.Second, cfg.Checkout.ItemResolverTimeout)
		assert.Equal(t, 3*time.Second, cfg.Checkout.TaxTimeout)
		assert.Equal(t, "all", cfg.Checkout.ZoneSelection)

		assert.Equal(t, TaxModeFlat, cfg.Tax.Mode)
		assert.True(t, cfg.Tax.FlatRateDecimal().IsZero())
		assert.Equal(t, CacheBackendRedis, cfg.ShippingCache.Backend)
		assert.Equal(t, time.Minute, cfg.ShippingCache.TTL)

		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
		assert.Equal(t, "marketplace-backend", cfg.Telemetry.ServiceName)
		assert.Equal(t, int64(1<<20), cfg.HTTP.MaxBodySize)
	})

	t.Run("loads values from environment variables", func(t *testing.T) {
		clearEnv()
		os.Setenv("MARKET_APP_NAME", "checkout-test")
		os.Setenv("MARKET_APP_PORT", "9000")
		os.Setenv("MARKET_DATABASE_HOST", "db.local")
		os.Setenv("MARKET_DATABASE_PORT", "5433")
		os.Setenv("MARKET_CHECKOUT_MERCHANT_CONCURRENCY", "8")
		os.Setenv("MARKET_CHECKOUT_CALCULATION_TIMEOUT", "2s")
		os.Setenv("MARKET_CHECKOUT_ZONE_SELECTION", "most_specific")
		os.Setenv("MARKET_TAX_FLAT_RATE", "0.0825")
		os.Setenv("MARKET_SHIPPING_CACHE_BACKEND", "memory")
		os.Setenv("MARKET_SHIPPING_CACHE_TTL", "30s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "checkout-test", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "db.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 8, cfg.Checkout.MerchantConcurrency)
		assert.Equal(t, 2*time.Second, cfg.Checkout.CalculationTimeout)
		assert.Equal(t, "most_specific", cfg.Checkout.ZoneSelection)
		assert.True(t, decimal.RequireFromString("0.0825").Equal(cfg.Tax.FlatRateDecimal()))
		assert.Equal(t, CacheBackendMemory, cfg.ShippingCache.Backend)
		assert.Equal(t, 30*time.Second, cfg.ShippingCache.TTL)
		assert.Equal(t, "checkout-test", cfg.Telemetry.ServiceName)
	})

	t.Run("zero sampling ratio is kept", func(t *testing.T) {
		clearEnv()
		os.Setenv("MARKET_TELEMETRY_SAMPLING_RATIO", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 0.0, cfg.Telemetry.SamplingRatio)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("MARKET_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("MARKET_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects negative merchant concurrency", func(t *testing.T) {
		clearEnv()
		os.Setenv("MARKET_CHECKOUT_MERCHANT_CONCURRENCY", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "checkout.merchant_concurrency")
	})

	t.Run("rejects unknown zone selection", func(t *testing.T) {
		clearEnv()
		os.Setenv("MARKET_CHECKOUT_ZONE_SELECTION", "closest")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "checkout.zone_selection")
	})

	t.Run("rejects malformed flat tax rate", func(t *testing.T) {
		clearEnv()
		os.Setenv("MARKET_TAX_FLAT_RATE", "eight percent")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tax.flat_rate")
	})

	t.Run("rejects negative flat tax rate", func(t *testing.T) {
		clearEnv()
		os.Setenv("MARKET_TAX_FLAT_RATE", "-0.1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be negative")
	})

	t.Run("remote tax mode requires base url", func(t *testing.T) {
		clearEnv()
		os.Setenv("MARKET_TAX_MODE", "remote")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tax.base_url")

		os.Setenv("MARKET_TAX_BASE_URL", "http://tax.local")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, TaxModeRemote, cfg.Tax.Mode)
	})

	t.Run("rejects unknown cache backend", func(t *testing.T) {
		clearEnv()
		os.Setenv("MARKET_SHIPPING_CACHE_BACKEND", "memcached")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "shipping_cache.backend")
	})

	t.Run("rejects sampling ratio out of range", func(t *testing.T) {
		clearEnv()
		os.Setenv("MARKET_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	clearEnv := isolateEnv(t)

	setValidProductionBase := func() {
		os.Setenv("MARKET_APP_ENV", "production")
		os.Setenv("MARKET_DATABASE_PASSWORD", "secure-password")
		os.Setenv("MARKET_DATABASE_SSLMODE", "require")
		os.Setenv("MARKET_CATALOG_BASE_URL", "http://catalog.internal")
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("MARKET_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("MARKET_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("requires catalog.base_url in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("MARKET_CATALOG_BASE_URL")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "catalog.base_url is required in production")
	})

	t.Run("forbids full SQL logging in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("MARKET_TELEMETRY_DB_LOG_FULL_SQL", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db_log_full_sql")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
		assert.Equal(t, "http://catalog.internal", cfg.Catalog.BaseURL)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
