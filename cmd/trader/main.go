package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/binance"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/config"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/database"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/executor"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/journal"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/ledger"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/logger"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/risk"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/strategy"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/trader"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:          "fastquant",
		Short:        "Dual moving-average trading bot with position and risk accounting",
		RunE:         run,
		SilenceUsage: true,
	}
	root.Flags().StringVarP(&configPath, "config", "c", "./configs", "directory containing config.yml")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// A .env file is optional; deployments usually inject env vars directly.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		return fmt.Errorf("could not initialize logger: %w", err)
	}
	defer log.Sync()
	log.Info("Configuration loaded",
		zap.String("symbol", cfg.Strategy.Symbol),
		zap.Bool("enable_trading", cfg.Trading.EnableTrading),
	)

	// Trade persistence is optional; with no DSN the journal stays in memory.
	var store journal.Store
	if cfg.Database.DSN != "" {
		db, err := database.New(cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("could not open trade store: %w", err)
		}
		store = journal.NewGormStore(db)
		log.Info("Trade store ready", zap.String("dsn", cfg.Database.DSN))
	}

	restClient := binance.NewRestClient(&cfg.Binance, log.Named("rest"))
	if cfg.Trading.EnableTrading {
		if _, err := restClient.GetServerTime(); err != nil {
			return fmt.Errorf("could not reach exchange API: %w", err)
		}
		log.Info("Exchange API connection verified")
	}

	source := strategy.NewDualMA(cfg.Strategy.Symbol, cfg.Strategy.FastPeriod, cfg.Strategy.SlowPeriod)
	gate := risk.NewGate(cfg.Trading.MaxPosition, log.Named("risk"))
	exec := executor.New(
		restClient,
		cfg.Trading.EnableTrading,
		time.Duration(cfg.Trading.OrderTimeout)*time.Second,
		log.Named("executor"),
	)
	led := ledger.New(cfg.Strategy.Symbol, log.Named("ledger"))
	jnl := journal.New(store, log.Named("journal"))
	reporter := journal.NewReporter(jnl, led)

	runner := trader.NewRunner(&cfg, log.Named("runner"), source, gate, exec, led, jnl, reporter)

	api := trader.NewAPIServer(runner, cfg.Server.Port, log)
	api.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	stream := binance.NewStreamClient(&cfg.Binance, log.Named("stream"))
	ticks, err := stream.SubscribeTicker(ctx, cfg.Strategy.Symbol)
	if err != nil {
		return fmt.Errorf("could not subscribe to ticker stream: %w", err)
	}

	go logStatusPeriodically(ctx, runner, log, time.Duration(cfg.Trading.StatusInterval)*time.Second)

	runner.Run(ctx, ticks)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := api.Stop(shutdownCtx); err != nil {
		log.Warn("API server shutdown failed", zap.Error(err))
	}

	log.Info("Bot has been shut down.")
	return nil
}

func logStatusPeriodically(ctx context.Context, runner *trader.Runner, log *zap.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			status := runner.Status()
			log.Info("Status",
				zap.Bool("is_running", status.IsRunning),
				zap.Float64("position", status.Position),
				zap.String("last_signal", status.LastSignal),
				zap.Float64("fast", status.FastIndicator),
				zap.Float64("slow", status.SlowIndicator),
			)
		}
	}
}
