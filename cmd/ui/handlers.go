package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log *zap.Logger
	db  *gorm.DB
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, db *gorm.DB) *APIHandler {
	return &APIHandler{log: log, db: db}
}

// TradesHandler returns all recorded trades, most recent first.
func (h *APIHandler) TradesHandler(w http.ResponseWriter, r *http.Request) {
	var trades []models.Trade
	if err := h.db.Order("timestamp desc").Find(&trades).Error; err != nil {
		h.log.Error("Failed to get trades from store", zap.Error(err))
		http.Error(w, "Failed to get trades", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trades)
}

// StatsDetail holds calculated statistics for a given period.
type StatsDetail struct {
	TotalTrades      int64   `json:"total_trades"`
	SellTrades       int64   `json:"sell_trades"`
	ProfitableTrades int64   `json:"profitable_trades"`
	WinRate          float64 `json:"win_rate"` // percent
	RealizedPnl      float64 `json:"realized_pnl"`
}

// StatisticsResponse is the structure for the /api/statistics endpoint.
type StatisticsResponse struct {
	Since24h StatsDetail `json:"since_24h"`
	AllTime  StatsDetail `json:"all_time"`
}

// StatisticsHandler calculates and returns trading statistics from the store.
func (h *APIHandler) StatisticsHandler(w http.ResponseWriter, r *http.Request) {
	var allTrades []models.Trade
	if err := h.db.Find(&allTrades).Error; err != nil {
		h.log.Error("Failed to get trades for statistics", zap.Error(err))
		http.Error(w, "Failed to calculate statistics", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	since24h := now.Add(-24 * time.Hour)

	stats24h := StatsDetail{}
	statsAllTime := StatsDetail{}

	for _, trade := range allTrades {
		accumulate(&statsAllTime, trade)

		tradeTime := time.UnixMilli(trade.Timestamp)
		if tradeTime.After(since24h) {
			accumulate(&stats24h, trade)
		}
	}

	finalize(&statsAllTime)
	finalize(&stats24h)

	response := StatisticsResponse{
		Since24h: stats24h,
		AllTime:  statsAllTime,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func accumulate(s *StatsDetail, trade models.Trade) {
	s.TotalTrades++
	if trade.Side == models.SideSell {
		s.SellTrades++
	}
	if trade.Pnl > 0 {
		s.ProfitableTrades++
	}
	s.RealizedPnl += trade.Pnl
}

func finalize(s *StatsDetail) {
	if s.SellTrades > 0 {
		s.WinRate = float64(s.ProfitableTrades) / float64(s.SellTrades) * 100
	}
}
