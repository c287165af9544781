package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/config"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/database"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/logger"
	"go.uber.org/zap"
)

// Read-only viewer for the persisted trade record. It runs next to (or after)
// the bot and serves the journal out of the sqlite store.
func main() {
	cfg, err := config.Load("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Database.DSN == "" {
		log.Fatal("No database DSN configured; the viewer needs the trade store")
	}

	db, err := database.New(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to open trade store", zap.Error(err))
	}

	mux := http.NewServeMux()
	apiHandler := NewAPIHandler(log, db)
	mux.HandleFunc("/api/trades", apiHandler.TradesHandler)
	mux.HandleFunc("/api/statistics", apiHandler.StatisticsHandler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("Starting trade viewer", zap.String("address", addr))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal("Trade viewer failed", zap.Error(err))
	}
}
