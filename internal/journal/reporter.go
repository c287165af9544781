package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/ledger"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/models"
	"go.uber.org/zap"
)

// csvHeader is the fixed column layout of the exported trade record.
var csvHeader = []string{"Timestamp", "DateTime", "Symbol", "Side", "Price", "Quantity", "PnL"}

// Statistics is the aggregate view of the journal and the current position.
type Statistics struct {
	TotalTrades      int     `json:"total_trades"`
	BuyCount         int     `json:"buy_trades"`
	SellCount        int     `json:"sell_trades"`
	WinRate          float64 `json:"win_rate"` // percent; 0 when there are no sells
	RealizedPnl      float64 `json:"realized_pnl"`
	UnrealizedPnl    float64 `json:"unrealized_pnl"`
	TotalPnl         float64 `json:"total_pnl"`
	PositionQuantity float64 `json:"position_quantity"`
	AverageCost      float64 `json:"avg_cost"`
}

// Reporter aggregates the journal and the position ledger into summary
// statistics and exports the trade record. It never mutates either.
type Reporter struct {
	journal *Journal
	ledger  *ledger.PositionLedger
}

// NewReporter creates a reporter over the given journal and ledger.
func NewReporter(j *Journal, l *ledger.PositionLedger) *Reporter {
	return &Reporter{journal: j, ledger: l}
}

// Statistics computes the summary. Pass markPrice <= 0 when no mark price is
// available; unrealized PnL is then reported as zero.
func (r *Reporter) Statistics(markPrice float64) Statistics {
	trades := r.journal.Trades()
	pos := r.ledger.Snapshot()

	stats := Statistics{
		TotalTrades:      len(trades),
		RealizedPnl:      pos.RealizedPnl,
		PositionQuantity: pos.Quantity,
		AverageCost:      pos.AverageCost,
	}

	profitable := 0
	for _, t := range trades {
		switch t.Side {
		case models.SideBuy:
			stats.BuyCount++
		case models.SideSell:
			stats.SellCount++
		}
		if t.Pnl > 0 {
			profitable++
		}
	}
	if stats.SellCount > 0 {
		stats.WinRate = float64(profitable) / float64(stats.SellCount) * 100
	}

	if markPrice > 0 {
		stats.UnrealizedPnl = r.ledger.UnrealizedPnl(markPrice)
	}
	stats.TotalPnl = stats.RealizedPnl + stats.UnrealizedPnl

	return stats
}

// WriteCSV serializes the journal to w, one row per trade in journal order,
// preceded by the header row.
func (r *Reporter) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, t := range r.journal.Trades() {
		dt := time.UnixMilli(t.Timestamp).Format("2006-01-02 15:04:05")
		row := []string{
			strconv.FormatInt(t.Timestamp, 10),
			dt,
			t.Symbol,
			string(t.Side),
			formatFloat(t.Price),
			formatFloat(t.Quantity),
			formatFloat(t.Pnl),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write trade row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFile writes the trade record to path, replacing any previous export.
func (r *Reporter) ExportFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := r.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LogReport emits the summary through the given logger.
func (r *Reporter) LogReport(logger *zap.Logger, markPrice float64) {
	stats := r.Statistics(markPrice)
	logger.Info("Trading report",
		zap.Int("total_trades", stats.TotalTrades),
		zap.Int("buy_trades", stats.BuyCount),
		zap.Int("sell_trades", stats.SellCount),
		zap.Float64("win_rate", stats.WinRate),
		zap.Float64("realized_pnl", stats.RealizedPnl),
		zap.Float64("unrealized_pnl", stats.UnrealizedPnl),
		zap.Float64("total_pnl", stats.TotalPnl),
		zap.Float64("position_quantity", stats.PositionQuantity),
		zap.Float64("avg_cost", stats.AverageCost),
	)
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
