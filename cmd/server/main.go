package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/TempAcc-hue/Financial-Portfolio/internal/adapter/grpc"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/adapter/quote/finnhub"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/adapter/repository"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/adapter/rest"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/config"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/logging"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/usecase/asset"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/usecase/importer"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/usecase/news"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/usecase/portfolio"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/usecase/pricing"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/usecase/seeder"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/usecase/valuation"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML configuration file")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		bootstrap := logging.New("info", os.Stderr)
		bootstrap.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logging.New(cfg.LogLevel, os.Stdout)

	// 2. Setup storage
	ctx := context.Background()
	partitions, closeStore, err := repository.Open(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to open storage")
	}
	defer closeStore()
	log.Info().Str("driver", cfg.Storage.Driver).Msg("Storage ready")

	// 3. Initialize services
	quotes := finnhub.New(cfg.Quote.BaseURL, cfg.Quote.APIKey, &http.Client{Timeout: cfg.Quote.Timeout})
	prices := pricing.NewPriceCache(quotes,
		pricing.WithTTL(cfg.Quote.CacheTTL),
		pricing.WithTimeout(cfg.Quote.Timeout),
		pricing.WithConcurrency(cfg.Valuation.Workers),
		pricing.WithLogger(log),
	)
	if cfg.Quote.APIKey == "" {
		log.Warn().Msg("FINNHUB_API_KEY is not set, tradeable holdings will be valued at their buy price")
	}

	assetService, err := asset.NewAssetService(partitions, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create asset service")
	}
	portfolioService := portfolio.NewPortfolioService(assetService, valuation.NewEngine(prices, log))
	csvImporter := importer.NewCSVImporter(assetService, log)
	newsService := news.NewNewsService(quotes, prices, log)

	if _, err := seeder.NewSeeder(assetService, csvImporter, log).Seed(ctx, cfg.Storage.SeedFile); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed portfolio")
	}

	// 4. Start gRPC server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.RecoveryInterceptor(log),
			grpcadapter.LoggingInterceptor(log),
		),
	)
	grpcadapter.RegisterPortfolioServiceServer(grpcServer, grpcadapter.NewServer(portfolioService, newsService))
	reflection.Register(grpcServer)

	if cfg.Server.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			log.Fatal().Err(err).Msgf("Failed to listen on %s", cfg.Server.GRPCAddr)
		}

		go func() {
			log.Info().Msgf("gRPC server listening on %s", cfg.Server.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				log.Fatal().Err(err).Msg("Failed to serve gRPC server")
			}
		}()
	}

	// 5. Start REST server
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           rest.NewServer(portfolioService, csvImporter, newsService, log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.Server.HTTPAddr != "" {
		go func() {
			log.Info().Msgf("HTTP server listening on %s", cfg.Server.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Failed to serve HTTP server")
			}
		}()
	}

	// Graceful shutdown
	waitForShutdown(log, grpcServer, httpServer)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down both servers
func waitForShutdown(log zerolog.Logger, grpcServer *grpclib.Server, httpServer *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Msgf("Received signal: %v. Shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	log.Info().Msg("HTTP server stopped")

	grpcServer.GracefulStop()
	log.Info().Msg("gRPC server stopped")
}
