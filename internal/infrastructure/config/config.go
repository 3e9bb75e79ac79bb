package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Log           LogConfig
	HTTP          HTTPConfig
	Checkout      CheckoutConfig
	Catalog       CatalogConfig
	Tax           TaxConfig
	ShippingCache ShippingCacheConfig
	Telemetry     TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// CheckoutConfig holds checkout calculation settings
type CheckoutConfig struct {
	MerchantConcurrency int
	CalculationTimeout  time.Duration
	ItemResolverTimeout time.Duration
	TaxTimeout          time.Duration
	ZoneSelection       string // all, most_specific
}

// CatalogConfig locates the item detail resolver
type CatalogConfig struct {
	BaseURL     string
	ResolvePath string
}

// Tax modes
const (
	TaxModeFlat   = "flat"
	TaxModeRemote = "remote"
)

// TaxConfig selects and configures the tax service
type TaxConfig struct {
	Mode          string // flat, remote
	FlatRate      string // decimal fraction, e.g. "0.0825"
	BaseURL       string
	CalculatePath string
}

// Shipping cache backends
const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

// ShippingCacheConfig controls the read-through cache of shipping configuration
type ShippingCacheConfig struct {
	Enabled bool
	Backend string // redis, memory
	TTL     time.Duration
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled               bool    // Whether to export traces
	CollectorEndpoint     string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio         float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName           string
	Insecure              bool // Use insecure (non-TLS) connection (development only)
	DBTraceEnabled        bool // Enable database query tracing (otelgorm)
	DBLogFullSQL          bool // Include bound SQL variables in spans (dev only)
	MetricsEnabled        bool
	MetricsExportInterval time.Duration
	LogsEnabled           bool // Export logs through the OTLP log bridge
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with MARKET_ prefix (e.g., MARKET_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("MARKET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Checkout: CheckoutConfig{
			MerchantConcurrency: v.GetInt("checkout.merchant_concurrency"),
			CalculationTimeout:  v.GetDuration("checkout.calculation_timeout"),
			ItemResolverTimeout: v.GetDuration("checkout.item_resolver_timeout"),
			TaxTimeout:          v.GetDuration("checkout.tax_timeout"),
			ZoneSelection:       v.GetString("checkout.zone_selection"),
		},
		Catalog: CatalogConfig{
			BaseURL:     v.GetString("catalog.base_url"),
			ResolvePath: v.GetString("catalog.resolve_path"),
		},
		Tax: TaxConfig{
			Mode:          v.GetString("tax.mode"),
			FlatRate:      v.GetString("tax.flat_rate"),
			BaseURL:       v.GetString("tax.base_url"),
			CalculatePath: v.GetString("tax.calculate_path"),
		},
		ShippingCache: ShippingCacheConfig{
			Enabled: v.GetBool("shipping_cache.enabled"),
			Backend: v.GetString("shipping_cache.backend"),
			TTL:     v.GetDuration("shipping_cache.ttl"),
		},
		Telemetry: TelemetryConfig{
			Enabled:               v.GetBool("telemetry.enabled"),
			CollectorEndpoint:     v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:         v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:           v.GetString("telemetry.service_name"),
			Insecure:              v.GetBool("telemetry.insecure"),
			DBTraceEnabled:        v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:          v.GetBool("telemetry.db_log_full_sql"),
			MetricsEnabled:        v.GetBool("telemetry.metrics_enabled"),
			MetricsExportInterval: v.GetDuration("telemetry.metrics_export_interval"),
			LogsEnabled:           v.GetBool("telemetry.logs_enabled"),
		},
	}

	// sampling_ratio = 0 is meaningful, so only default it when unset
	if !v.IsSet("telemetry.sampling_ratio") {
		cfg.Telemetry.SamplingRatio = 1.0
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "marketplace-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "marketplace"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	// An empty CORS origin list allows no cross-origin requests until configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID", "traceparent", "tracestate"}
	}
	if cfg.Checkout.MerchantConcurrency == 0 {
		cfg.Checkout.MerchantConcurrency = 4
	}
	if cfg.Checkout.CalculationTimeout == 0 {
		cfg.Checkout.CalculationTimeout = 10 * time.Second
	}
	if cfg.Checkout.ItemResolverTimeout == 0 {
		cfg.Checkout.ItemResolverTimeout = 3 * time.Second
	}
	if cfg.Checkout.TaxTimeout == 0 {
		cfg.Checkout.TaxTimeout = 3 * time.Second
	}
	if cfg.Checkout.ZoneSelection == "" {
		cfg.Checkout.ZoneSelection = "all"
	}
	if cfg.Catalog.ResolvePath == "" {
		cfg.Catalog.ResolvePath = "/internal/items/resolve"
	}
	if cfg.Tax.Mode == "" {
		cfg.Tax.Mode = TaxModeFlat
	}
	if cfg.Tax.FlatRate == "" {
		cfg.Tax.FlatRate = "0"
	}
	if cfg.Tax.CalculatePath == "" {
		cfg.Tax.CalculatePath = "/internal/tax/calculate"
	}
	if cfg.ShippingCache.Backend == "" {
		cfg.ShippingCache.Backend = CacheBackendRedis
	}
	if cfg.ShippingCache.TTL == 0 {
		cfg.ShippingCache.TTL = time.Minute
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsExportInterval == 0 {
		cfg.Telemetry.MetricsExportInterval = 60 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Checkout.MerchantConcurrency < 1 {
		return fmt.Errorf("checkout.merchant_concurrency must be at least 1")
	}
	switch c.Checkout.ZoneSelection {
	case "all", "most_specific":
	default:
		return fmt.Errorf("checkout.zone_selection must be 'all' or 'most_specific', got %q", c.Checkout.ZoneSelection)
	}

	switch c.Tax.Mode {
	case TaxModeFlat:
		rate, err := decimal.NewFromString(c.Tax.FlatRate)
		if err != nil {
			return fmt.Errorf("tax.flat_rate must be a decimal: %w", err)
		}
		if rate.IsNegative() {
			return fmt.Errorf("tax.flat_rate cannot be negative")
		}
	case TaxModeRemote:
		if c.Tax.BaseURL == "" {
			return fmt.Errorf("tax.base_url is required when tax.mode is 'remote'")
		}
	default:
		return fmt.Errorf("tax.mode must be 'flat' or 'remote', got %q", c.Tax.Mode)
	}

	switch c.ShippingCache.Backend {
	case CacheBackendRedis, CacheBackendMemory:
	default:
		return fmt.Errorf("shipping_cache.backend must be 'redis' or 'memory', got %q", c.ShippingCache.Backend)
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.Catalog.BaseURL == "" {
			return fmt.Errorf("catalog.base_url is required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns the redis host:port address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// FlatRateDecimal returns the parsed flat tax rate; call after Load
func (t *TaxConfig) FlatRateDecimal() decimal.Decimal {
	rate, err := decimal.NewFromString(t.FlatRate)
	if err != nil {
		return decimal.Zero
	}
	return rate
}
