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

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"thorchain-history/internal/api"
	"thorchain-history/internal/config"
	"thorchain-history/internal/ingestion"
	"thorchain-history/internal/midgard"
	"thorchain-history/internal/observability"
	"thorchain-history/internal/storage"
	"thorchain-history/internal/storage/memory"
	"thorchain-history/internal/storage/migrations"
	"thorchain-history/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "history-server",
		Short:        "THORChain history mirror and read API",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sync scheduler and HTTP API",
		RunE:  runServe,
	}
	addCommonFlags(serveCmd)
	serveCmd.Flags().String("listen-addr", ":8080", "HTTP listen address")
	serveCmd.Flags().Bool("use-memory", false, "use in-memory storage instead of Postgres")
	serveCmd.Flags().Duration("sync-interval", 120*time.Second, "pause between sync passes")
	root.AddCommand(serveCmd)

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one sync pass and exit",
		RunE:  runSync,
	}
	addCommonFlags(syncCmd)
	root.AddCommand(syncCmd)

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE:  runMigrate,
	}
	migrateCmd.Flags().String("database-url", "", "Postgres connection URL")
	migrateCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(migrateCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("database-url", "", "Postgres connection URL")
	cmd.Flags().String("midgard-url", "https://midgard.ninerealms.com/v2/history", "Midgard base URL")
	cmd.Flags().String("depth-asset", "BTC.BTC", "pool for the depth/price series")
	cmd.Flags().Duration("lookback", 90*24*time.Hour, "initial backfill window")
	cmd.Flags().Int("window-count", 400, "hourly windows per upstream fetch")
	cmd.Flags().Float64("rate-limit", 2.0, "upstream requests per second")
	cmd.Flags().Int("rate-burst", 4, "upstream request burst")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

// stores bundles one implementation of each series store.
type stores struct {
	depths   storage.DepthPriceStore
	earnings storage.EarningsStore
	runePool storage.RunePoolStore
	swaps    storage.SwapsStore
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st stores
	if cfg.UseMemory {
		logger.Warn("using in-memory storage, data is lost on shutdown")
		st = stores{
			depths:   memory.NewDepthPriceStore(),
			earnings: memory.NewEarningsStore(),
			runePool: memory.NewRunePoolStore(),
			swaps:    memory.NewSwapsStore(),
		}
	} else {
		pool, err := openPostgres(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer pool.Close()
		st = postgresStores(pool)
	}

	metrics := observability.NewMetrics("")
	orch, err := newOrchestrator(cfg, st, logger, metrics)
	if err != nil {
		return err
	}
	scheduler := ingestion.NewScheduler(orch, cfg.SyncInterval, logger.Named("sync"))

	handler := api.NewHandler(st.depths, st.earnings, st.runePool, st.swaps, logger.Named("api"))
	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.NewRouter(handler, logger.Named("http"), metrics),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := scheduler.Run(ctx); !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func runSync(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := openPostgres(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	orch, err := newOrchestrator(cfg, postgresStores(pool), logger, nil)
	if err != nil {
		return err
	}

	res, err := orch.RunPass(ctx)
	if err != nil {
		return fmt.Errorf("sync pass: %w", err)
	}
	logger.Info("sync pass complete",
		zap.Int("rounds", res.Rounds),
		zap.Int("depths", res.Depths),
		zap.Int("earnings", res.Earnings),
		zap.Int("runepool", res.RunePool),
		zap.Int("swaps", res.Swaps),
		zap.Int("swaps_skipped", res.SwapsSkipped))
	return nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := openPostgres(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	logger.Info("migrations applied")
	return nil
}

func openPostgres(ctx context.Context, cfg config.Config, logger *zap.Logger) (*postgres.Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database url is required")
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := migrations.RunPostgres(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info("postgres ready")
	return pool, nil
}

func postgresStores(pool *postgres.Pool) stores {
	return stores{
		depths:   postgres.NewDepthPriceStore(pool),
		earnings: postgres.NewEarningsStore(pool),
		runePool: postgres.NewRunePoolStore(pool),
		swaps:    postgres.NewSwapsStore(pool),
	}
}

func newOrchestrator(cfg config.Config, st stores, logger *zap.Logger, metrics *observability.Metrics) (*ingestion.Orchestrator, error) {
	client := midgard.NewClient(cfg.MidgardURL,
		midgard.WithDepthAsset(cfg.DepthAsset),
		midgard.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		midgard.WithLogger(logger.Named("midgard")),
	)

	return ingestion.NewOrchestrator(ingestion.OrchestratorOptions{
		Source:      client,
		Depths:      st.depths,
		Earnings:    st.earnings,
		RunePool:    st.runePool,
		Swaps:       st.swaps,
		Lookback:    cfg.Lookback,
		WindowCount: cfg.WindowCount,
		Logger:      logger.Named("ingestion"),
		Metrics:     metrics,
	})
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
