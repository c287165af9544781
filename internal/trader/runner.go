package trader

import (
	"context"
	"sync"

	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/config"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/executor"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/journal"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/ledger"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/models"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/risk"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/strategy"
	"go.uber.org/zap"
)

// Runner drives the per-tick pipeline: signal generation, risk gating, order
// execution, position accounting, and journaling.
//
// All trading state is mutated from the single goroutine consuming the tick
// channel, which makes the single-writer discipline for the ledger and the
// gate structural rather than incidental. Order submission is synchronous
// inside that consumer: a slow submission delays the next tick's evaluation,
// bounded by the executor's order timeout.
type Runner struct {
	cfg    *config.Config
	logger *zap.Logger

	source   strategy.SignalSource
	gate     *risk.Gate
	executor *executor.Executor
	ledger   *ledger.PositionLedger
	journal  *journal.Journal
	reporter *journal.Reporter

	mu        sync.Mutex
	running   bool
	lastPrice float64
	lastFast  float64
	lastSlow  float64
}

// Status is the read-only point-in-time view polled by monitoring.
type Status struct {
	IsRunning     bool    `json:"is_running"`
	Position      float64 `json:"position"`
	LastSignal    string  `json:"last_signal"`
	Symbol        string  `json:"symbol"`
	FastIndicator float64 `json:"fast_indicator"`
	SlowIndicator float64 `json:"slow_indicator"`
}

// NewRunner wires the pipeline components together.
func NewRunner(
	cfg *config.Config,
	logger *zap.Logger,
	source strategy.SignalSource,
	gate *risk.Gate,
	exec *executor.Executor,
	led *ledger.PositionLedger,
	jnl *journal.Journal,
	reporter *journal.Reporter,
) *Runner {
	return &Runner{
		cfg:      cfg,
		logger:   logger,
		source:   source,
		gate:     gate,
		executor: exec,
		ledger:   led,
		journal:  jnl,
		reporter: reporter,
	}
}

// Run consumes ticks until the channel closes or ctx is cancelled, then
// produces the final report from the then-current ledger state. Any
// in-flight order finishes (or times out) before Run returns.
func (r *Runner) Run(ctx context.Context, ticks <-chan models.Tick) {
	r.setRunning(true)
	defer r.setRunning(false)

	mode := "simulation"
	if r.cfg.Trading.EnableTrading {
		mode = "live"
	}
	r.logger.Info("Execution loop started",
		zap.String("symbol", r.source.Symbol()),
		zap.String("mode", mode),
	)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Execution loop stopping: context cancelled")
			r.finalReport()
			return
		case tick, ok := <-ticks:
			if !ok {
				r.logger.Info("Execution loop stopping: tick stream ended")
				r.finalReport()
				return
			}
			r.processTick(ctx, tick)
		}
	}
}

// Status returns a consistent snapshot for external monitoring.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Status{
		IsRunning:     r.running,
		Position:      r.gate.Exposure(),
		LastSignal:    string(r.gate.LastAccepted()),
		Symbol:        r.source.Symbol(),
		FastIndicator: r.lastFast,
		SlowIndicator: r.lastSlow,
	}
}

func (r *Runner) processTick(ctx context.Context, tick models.Tick) {
	signal := r.source.OnTick(tick)

	r.mu.Lock()
	r.lastPrice = tick.Price
	r.lastFast = r.source.FastIndicator()
	r.lastSlow = r.source.SlowIndicator()
	r.mu.Unlock()

	if signal != models.SignalHold {
		r.logger.Info("Signal",
			zap.String("symbol", tick.Symbol),
			zap.Float64("price", tick.Price),
			zap.Float64("fast", r.source.FastIndicator()),
			zap.Float64("slow", r.source.SlowIndicator()),
			zap.String("signal", string(signal)),
		)
	}

	if decision := r.gate.Evaluate(signal, r.gate.Exposure()); decision != risk.Accept {
		return
	}

	side := models.SideBuy
	if signal == models.SignalSell {
		side = models.SideSell
	}

	fill, err := r.executor.Execute(ctx, tick.Symbol, side, r.cfg.Trading.TradeQuantity, tick.Price)
	if err != nil {
		// Position and exposure stay untouched; the next signal transition
		// gets a fresh attempt.
		r.logger.Error("Order execution failed, state unchanged",
			zap.Error(err),
			zap.String("side", string(side)),
			zap.Float64("price", tick.Price),
		)
		return
	}

	r.gate.ApplyFill(side, fill.Quantity)

	trade := r.ledger.RecordFill(side, fill.Price, fill.Quantity, fill.Timestamp)
	trade.IsSimulation = fill.Simulated
	r.journal.Append(trade)

	r.logger.Info("Fill recorded",
		zap.String("order_id", fill.OrderID),
		zap.String("side", string(side)),
		zap.Float64("price", fill.Price),
		zap.Float64("quantity", fill.Quantity),
		zap.Float64("exposure", r.gate.Exposure()),
		zap.Float64("realized_pnl", trade.Pnl),
	)
}

func (r *Runner) finalReport() {
	r.mu.Lock()
	mark := r.lastPrice
	r.mu.Unlock()

	r.reporter.LogReport(r.logger, mark)

	if path := r.cfg.Trading.ExportPath; path != "" {
		if err := r.reporter.ExportFile(path); err != nil {
			r.logger.Error("Failed to export trade record", zap.Error(err))
		} else {
			r.logger.Info("Trade record exported", zap.String("path", path))
		}
	}
}

func (r *Runner) setRunning(v bool) {
	r.mu.Lock()
	r.running = v
	r.mu.Unlock()
}
