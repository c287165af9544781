package journal

import (
	"sync"

	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/models"
	"go.uber.org/zap"
)

// Store persists trade records. The gorm-backed implementation lives in
// store.go; a nil Store keeps the journal in memory only.
type Store interface {
	SaveTrade(trade *models.Trade) error
}

// Journal is the append-only record of fills for one run. Entries keep
// arrival order and are never reordered or deleted; readers only ever copy.
type Journal struct {
	mu     sync.RWMutex
	trades []*models.Trade

	store  Store
	logger *zap.Logger
}

// New creates an empty journal. store may be nil.
func New(store Store, logger *zap.Logger) *Journal {
	return &Journal{
		store:  store,
		logger: logger,
	}
}

// Append records one trade. Persistence failures are logged and do not
// affect the in-memory record: the bot keeps running on the journal alone.
func (j *Journal) Append(trade *models.Trade) {
	j.mu.Lock()
	j.trades = append(j.trades, trade)
	j.mu.Unlock()

	if j.store != nil {
		if err := j.store.SaveTrade(trade); err != nil {
			j.logger.Error("Failed to persist trade record", zap.Error(err))
		}
	}
}

// Len returns the number of recorded trades.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.trades)
}

// Trades returns a copy of the journal in arrival order.
func (j *Journal) Trades() []*models.Trade {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]*models.Trade, len(j.trades))
	copy(out, j.trades)
	return out
}
