package ledger

import (
	"sync"

	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/models"
	"go.uber.org/zap"
)

// PositionLedger tracks the quantity and cost basis of a single-symbol
// position and accumulates realized PnL on reducing trades.
//
// The cost method is weighted average, not lot-by-lot FIFO: a SELL reduces
// the cost basis at the current average cost regardless of which buys built
// it. Quantity and total cost are always updated together under one lock, so
// readers never observe them from two different mutation epochs.
type PositionLedger struct {
	mu sync.Mutex

	symbol      string
	quantity    float64
	totalCost   float64
	realizedPnl float64

	logger *zap.Logger
}

// Snapshot is a consistent point-in-time view of the position.
type Snapshot struct {
	Quantity    float64
	TotalCost   float64
	AverageCost float64 // 0 while quantity is 0
	RealizedPnl float64
}

// New creates an empty ledger for one symbol.
func New(symbol string, logger *zap.Logger) *PositionLedger {
	return &PositionLedger{
		symbol: symbol,
		logger: logger,
	}
}

// RecordFill applies one fill to the position and returns the trade record,
// with realized PnL stamped when the fill reduces an open position.
//
// A SELL against an empty position is still recorded, with zero PnL and the
// position left untouched; rejecting oversells is the risk gate's job, not
// the ledger's.
func (l *PositionLedger) RecordFill(side models.Side, price, quantity float64, timestamp int64) *models.Trade {
	l.mu.Lock()
	defer l.mu.Unlock()

	trade := &models.Trade{
		Symbol:    l.symbol,
		Side:      side,
		Price:     price,
		Quantity:  quantity,
		Timestamp: timestamp,
	}

	switch side {
	case models.SideBuy:
		l.totalCost += price * quantity
		l.quantity += quantity
	case models.SideSell:
		if l.quantity > 0 {
			avgCost := l.totalCost / l.quantity
			pnl := (price - avgCost) * quantity
			trade.Pnl = pnl
			l.realizedPnl += pnl
			l.totalCost -= avgCost * quantity
			l.quantity -= quantity

			l.logger.Info("Realized PnL on reducing trade",
				zap.Float64("pnl", pnl),
				zap.Float64("sell_price", price),
				zap.Float64("avg_cost", avgCost),
				zap.Float64("quantity", quantity),
			)
		}
	}

	return trade
}

// UnrealizedPnl marks the open quantity against the supplied price.
// Pure read, no side effects.
func (l *PositionLedger) UnrealizedPnl(markPrice float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.unrealizedLocked(markPrice)
}

// TotalPnl is realized plus unrealized PnL at the supplied mark price.
func (l *PositionLedger) TotalPnl(markPrice float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.realizedPnl + l.unrealizedLocked(markPrice)
}

// Snapshot returns the current position state as one consistent view.
func (l *PositionLedger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Snapshot{
		Quantity:    l.quantity,
		TotalCost:   l.totalCost,
		RealizedPnl: l.realizedPnl,
	}
	if l.quantity > 0 {
		s.AverageCost = l.totalCost / l.quantity
	}
	return s
}

func (l *PositionLedger) unrealizedLocked(markPrice float64) float64 {
	if l.quantity <= 0 {
		return 0
	}
	avgCost := l.totalCost / l.quantity
	return (markPrice - avgCost) * l.quantity
}
