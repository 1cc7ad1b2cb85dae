package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"valutatrade-hub/internal/adapter/cache"
	httpRouter "valutatrade-hub/internal/adapter/http"
	"valutatrade-hub/internal/adapter/kafka"
	"valutatrade-hub/internal/adapter/source"
	"valutatrade-hub/internal/adapter/storage"
	"valutatrade-hub/internal/config"
	"valutatrade-hub/internal/domain/model"
	"valutatrade-hub/internal/domain/ports"
	"valutatrade-hub/internal/metrics"
	"valutatrade-hub/internal/service"
	"valutatrade-hub/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	log := logger.NewLogger(os.Getenv("LOG_LEVEL"))
	log.Info("Starting valutatrade rates service")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	baseCurrency := model.Currency(strings.ToUpper(cfg.Rates.BaseCurrency))
	if !baseCurrency.IsSupported() {
		log.Error("Unsupported base currency", "code", cfg.Rates.BaseCurrency)
		os.Exit(1)
	}

	appMetrics := metrics.NewMetrics()
	store := cache.NewMemoryStore(log)

	snapshots, err := newSnapshotStore(cfg, log)
	if err != nil {
		log.Error("Failed to initialize snapshot storage", "error", err)
		os.Exit(1)
	}

	if snap, err := snapshots.Load(context.Background()); err != nil {
		log.Error("Failed to load persisted rates", "error", err)
	} else {
		store.Hydrate(snap)
		log.Info("Hydrated rate store", "pairs", store.Len(), "last_refresh", snap.LastRefresh)
	}

	sources := []ports.RateSource{
		source.NewCoinGecko(cfg.Sources.CoinGeckoURL, cfg.Sources.RequestTimeout, log),
		source.NewExchangeRate(cfg.Sources.ExchangeRateURL, cfg.Sources.ExchangeRateAPIKey, cfg.Sources.RequestTimeout, log),
	}

	var publisher ports.EventPublisher
	if cfg.Kafka.Enabled {
		publisher = kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		log.Info("Kafka refresh events enabled", "topic", cfg.Kafka.Topic)
	}

	updater := service.NewUpdater(sources, store, snapshots, publisher, appMetrics, log)
	scheduler := service.NewScheduler(updater, cfg.Rates.RefreshInterval, appMetrics, log)
	resolver := service.NewResolver(store, baseCurrency, cfg.Rates.TTL, appMetrics, log)
	valuator := service.NewValuator(resolver, log)
	portfolios := storage.NewPortfolioFile(filepath.Join(cfg.Storage.DataDir, "portfolios.json"), log)

	ratesService := service.NewRatesService(
		store,
		resolver,
		valuator,
		scheduler,
		portfolios,
		snapshots,
		updater.SourceNames(),
		cfg.Rates.TTL,
		log,
	)

	handler := httpRouter.NewHandler(ratesService, baseCurrency, log, appMetrics)
	router := httpRouter.NewRouter(handler, log, appMetrics)
	routes := router.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      routes,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	refreshCtx, cancelRefresh := context.WithCancel(context.Background())
	scheduler.Start(refreshCtx)

	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	cancelRefresh()
	scheduler.Stop()

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close event publisher", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}

func newSnapshotStore(cfg *config.Config, log *logger.Logger) (ports.SnapshotStore, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		return storage.NewPostgresStore(cfg.Storage.PostgresDSN, log)
	case "file", "":
		return storage.NewFileStore(cfg.Storage.DataDir, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
