package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	checkoutapp "github.com/marketplace/backend/internal/application/checkout"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/marketplace/backend/internal/infrastructure/cache"
	"github.com/marketplace/backend/internal/infrastructure/catalog"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/httpclient"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/marketplace/backend/internal/infrastructure/tax"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"github.com/marketplace/backend/internal/interfaces/http/router"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	logCfg := logger.ConfigForEnvironment(cfg.App.Env)
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logCfg.Output = cfg.Log.Output
	logCfg.Service = cfg.App.Name
	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger:", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	if err := run(cfg, log); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelProviders, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := otelProviders.Shutdown(context.Background()); err != nil {
			log.Warn("Error shutting down telemetry", zap.Error(err))
		}
	}()
	log = otelProviders.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	log.Info("Starting marketplace checkout backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(ctx, &cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := otelProviders.InstrumentDB(db.DB, cfg.Database.DBName); err != nil {
		return err
	}

	var shippingConfig shipping.ConfigReader = persistence.NewGormShippingRepository(db.DB)
	if cfg.ShippingCache.Enabled {
		store := cache.NewStore(ctx, cfg.ShippingCache, cfg.Redis, log)
		defer func() {
			if err := store.Close(); err != nil {
				log.Warn("Error closing shipping cache", zap.Error(err))
			}
		}()
		shippingConfig = cache.NewCachedShippingConfig(shippingConfig, store, cfg.ShippingCache.TTL,
			cache.WithCacheLogger(log))
	}

	zoneSelection, err := shipping.ParseZoneSelection(cfg.Checkout.ZoneSelection)
	if err != nil {
		return err
	}
	shippingResolver := checkoutapp.NewShippingOptionsResolver(shippingConfig,
		shipping.WithZoneSelection(zoneSelection),
		shipping.WithZoneMatcherLogger(log),
	)

	catalogClient, err := httpclient.New("catalog", cfg.Catalog.BaseURL)
	if err != nil {
		return err
	}
	itemResolver := catalog.NewResolver(catalogClient, cfg.Catalog.ResolvePath, log)

	taxService, err := tax.NewService(cfg.Tax)
	if err != nil {
		return err
	}

	meter := otelProviders.Meter("checkout")
	metrics, err := telemetry.NewCheckoutMetrics(meter)
	if err != nil {
		return fmt.Errorf("failed to create checkout metrics: %w", err)
	}

	checkoutService := checkoutapp.NewCheckoutService(itemResolver, shippingResolver, taxService,
		checkoutapp.WithServiceConfig(checkoutapp.ServiceConfig{
			MerchantConcurrency: cfg.Checkout.MerchantConcurrency,
			CalculationTimeout:  cfg.Checkout.CalculationTimeout,
			ItemResolverTimeout: cfg.Checkout.ItemResolverTimeout,
			TaxTimeout:          cfg.Checkout.TaxTimeout,
		}),
		checkoutapp.WithLogger(log),
		checkoutapp.WithMetrics(metrics),
	)

	engine, err := router.NewEngine(router.Dependencies{
		Config:   cfg,
		Logger:   log,
		Meter:    otelProviders.Meter("http.server"),
		Checkout: checkoutService,
		Database: db,
	})
	if err != nil {
		return fmt.Errorf("failed to build http engine: %w", err)
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exited gracefully")
	return nil
}
