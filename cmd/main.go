package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"crowdfund/internal/adapter/clock"
	httpadapter "crowdfund/internal/adapter/http"
	"crowdfund/internal/adapter/memory"
	"crowdfund/internal/adapter/postgres"
	"crowdfund/internal/adapter/usecase"
	"crowdfund/internal/config"
	"crowdfund/internal/config/configs"
	"crowdfund/internal/db"
	"crowdfund/internal/metrics"
)

// main loads configuration, wires the escrow services onto the selected
// storage, admits the deployer into the registry and serves HTTP until a
// termination signal arrives.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := cfg.Log.New(os.Stdout, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, cfg, logger); err != nil {
		logger.Error("service stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("service gracefully stopped")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	metrics.Register()

	ports, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	deployer, factoryAddr, feeSink := cfg.Platform.Addresses()

	registry := usecase.NewRegistryService(ports, logger)
	if err = registry.Bootstrap(ctx, deployer); err != nil {
		return fmt.Errorf("bootstrap registry: %w", err)
	}
	factory, err := usecase.NewFactoryService(usecase.FactoryConfig{Address: factoryAddr, FeeBps: cfg.Platform.FeeBps}, ports, logger)
	if err != nil {
		return err
	}
	campaigns, err := usecase.NewCampaignService(feeSink, ports, logger)
	if err != nil {
		return err
	}

	handler := httpadapter.NewHandler(httpadapter.Services{
		Registry:  registry,
		Factory:   factory,
		Campaigns: campaigns,
		Events:    usecase.NewEventService(ports.Events),
	}, httpadapter.Options{
		Clock:            ports.Clock,
		SignatureMaxSkew: cfg.HTTP.SignatureMaxSkew,
		RateLimitRPS:     cfg.HTTP.RateLimitRPS,
		RateLimitBurst:   cfg.HTTP.RateLimitBurst,
	}, logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: handler.Router(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening",
			slog.Int("port", int(cfg.HTTP.Port)),
			slog.String("storage", cfg.Storage.Driver),
			slog.String("factory", factoryAddr.Hex()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openStorage builds the outbound ports for the configured driver. The
// memory driver keeps everything in process and is meant for local runs.
func openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (usecase.Ports, func(), error) {
	if cfg.Storage.Driver == configs.StorageMemory {
		logger.Warn("using in-memory storage, state is lost on exit")
		store := memory.NewStore()
		return usecase.Ports{
			Tx:        store,
			Admins:    store.Admins(),
			Campaigns: store.Campaigns(),
			Events:    store.Events(),
			Ledger:    store.Ledger(),
			Clock:     clock.System{},
		}, func() {}, nil
	}

	if cfg.Psql.RunMigrations {
		if err := db.Migrate(cfg.Psql.Addr.String()); err != nil {
			return usecase.Ports{}, nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied successfully")
	}
	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		return usecase.Ports{}, nil, fmt.Errorf("database connection: %w", err)
	}
	return usecase.Ports{
		Tx:        postgres.NewTransactor(pool),
		Admins:    postgres.NewAdminRepository(pool),
		Campaigns: postgres.NewCampaignRepository(pool),
		Events:    postgres.NewEventRepository(pool),
		Ledger:    postgres.NewLedger(pool),
		Clock:     clock.System{},
	}, pool.Close, nil
}
