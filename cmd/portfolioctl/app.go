package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/adapter/quote/finnhub"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/adapter/repository"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/config"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/logging"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/usecase/asset"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/usecase/portfolio"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/usecase/pricing"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/usecase/valuation"
)

// app bundles the services a command works with
type app struct {
	Assets    *asset.AssetService
	Portfolio *portfolio.PortfolioService
	Log       zerolog.Logger
	close     func() error
}

// openApp wires storage and pricing from the configuration file.
// Logs go to stderr so command output stays clean.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	log := logging.NewConsole(cfg.LogLevel, os.Stderr)

	storage := cliStorage(cfg.Storage)
	if storage.Driver != cfg.Storage.Driver {
		log.Debug().Str("path", storage.SQLitePath).Msg("memory storage does not outlive a command, using sqlite")
	}

	partitions, closeStore, err := repository.Open(ctx, storage)
	if err != nil {
		return nil, err
	}

	quotes := finnhub.New(cfg.Quote.BaseURL, cfg.Quote.APIKey, &http.Client{Timeout: cfg.Quote.Timeout})
	prices := pricing.NewPriceCache(quotes,
		pricing.WithTTL(cfg.Quote.CacheTTL),
		pricing.WithTimeout(cfg.Quote.Timeout),
		pricing.WithConcurrency(cfg.Valuation.Workers),
		pricing.WithLogger(log),
	)

	assets, err := asset.NewAssetService(partitions, log)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("failed to create asset service: %w", err)
	}

	return &app{
		Assets:    assets,
		Portfolio: portfolio.NewPortfolioService(assets, valuation.NewEngine(prices, log)),
		Log:       log,
		close:     closeStore,
	}, nil
}

// cliStorage swaps the memory driver for sqlite so holdings persist between invocations
func cliStorage(storage config.StorageConfig) config.StorageConfig {
	if storage.Driver != config.DriverMemory {
		return storage
	}
	storage.Driver = config.DriverSQLite
	if storage.SQLitePath == "" {
		storage.SQLitePath = config.Default().Storage.SQLitePath
	}
	return storage
}

func (a *app) Close() error {
	return a.close()
}
