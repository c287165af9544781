package trader

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/config"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/executor"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/journal"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/ledger"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/models"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/risk"
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockOrderSink is a mock implementation of the executor.OrderSink interface.
type MockOrderSink struct {
	mock.Mock
}

func (m *MockOrderSink) PlaceOrder(ctx context.Context, req models.OrderRequest) (*models.OrderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderResult), args.Error(1)
}

type testHarness struct {
	runner   *Runner
	gate     *risk.Gate
	ledger   *ledger.PositionLedger
	journal  *journal.Journal
	reporter *journal.Reporter
}

// setupRunner builds a runner over the given source and executor, with
// trade quantity 1 and max position 1.
func setupRunner(source strategy.SignalSource, exec *executor.Executor) *testHarness {
	cfg := &config.Config{
		Strategy: config.Strategy{Symbol: "BTCUSDT", FastPeriod: 2, SlowPeriod: 3},
		Trading:  config.Trading{MaxPosition: 1, TradeQuantity: 1},
	}

	log := zap.NewNop()
	gate := risk.NewGate(cfg.Trading.MaxPosition, log)
	led := ledger.New(cfg.Strategy.Symbol, log)
	jnl := journal.New(nil, log)
	reporter := journal.NewReporter(jnl, led)

	return &testHarness{
		runner:   NewRunner(cfg, log, source, gate, exec, led, jnl, reporter),
		gate:     gate,
		ledger:   led,
		journal:  jnl,
		reporter: reporter,
	}
}

// feed runs the runner over the given ticks and returns after the loop ends.
func (h *testHarness) feed(t *testing.T, ticks []models.Tick) {
	t.Helper()
	ch := make(chan models.Tick, len(ticks))
	for _, tick := range ticks {
		ch <- tick
	}
	close(ch)
	h.runner.Run(context.Background(), ch)
}

func ticksFromPrices(prices []float64) []models.Tick {
	ticks := make([]models.Tick, len(prices))
	for i, p := range prices {
		ticks[i] = models.Tick{Symbol: "BTCUSDT", Price: p, EventTime: int64(1000 * (i + 1))}
	}
	return ticks
}

// Full round trip through the real dual-MA source in simulation mode: the
// descending-then-rising-then-falling series produces exactly one golden
// cross and one death cross.
func TestRunner_EndToEndRoundTrip(t *testing.T) {
	// Arrange
	source := strategy.NewDualMA("BTCUSDT", 2, 3)
	exec := executor.New(nil, false, time.Second, zap.NewNop())
	h := setupRunner(source, exec)

	// Act: BUY expected at 12, SELL expected at 5
	h.feed(t, ticksFromPrices([]float64{10, 9, 8, 12, 13, 5}))

	// Assert: exactly one BUY and one SELL dispatched
	trades := h.journal.Trades()
	require.Len(t, trades, 2)
	assert.Equal(t, models.SideBuy, trades[0].Side)
	assert.Equal(t, 12.0, trades[0].Price)
	assert.Equal(t, models.SideSell, trades[1].Side)
	assert.Equal(t, 5.0, trades[1].Price)
	assert.Equal(t, -7.0, trades[1].Pnl) // (5 - 12) * 1
	assert.True(t, trades[0].IsSimulation)

	// Final position flat in both trackers
	snap := h.ledger.Snapshot()
	assert.Equal(t, 0.0, snap.Quantity)
	assert.Equal(t, 0.0, snap.TotalCost)
	assert.Equal(t, -7.0, snap.RealizedPnl)
	assert.Equal(t, 0.0, h.gate.Exposure())

	// Exported record: header plus the two fills, SELL row carries the PnL
	var buf bytes.Buffer
	require.NoError(t, h.reporter.WriteCSV(&buf))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "BUY", rows[1][3])
	assert.Equal(t, "SELL", rows[2][3])
	assert.Equal(t, "-7", rows[2][6])

	// Status after shutdown
	status := h.runner.Status()
	assert.False(t, status.IsRunning)
	assert.Equal(t, "SELL", status.LastSignal)
	assert.Equal(t, "BTCUSDT", status.Symbol)
}

// Two consecutive identical signals must produce exactly one order dispatch.
func TestRunner_DuplicateSignalDispatchesOnce(t *testing.T) {
	// Arrange: live mode so every dispatch hits the sink
	sink := new(MockOrderSink)
	sink.On("PlaceOrder", mock.Anything, mock.Anything).Return(&models.OrderResult{
		OrderID: "1", Status: "FILLED", Price: 100, Quantity: 1,
	}, nil).Once()

	source := strategy.NewScripted("BTCUSDT", models.SignalBuy, models.SignalBuy, models.SignalBuy)
	exec := executor.New(sink, true, time.Second, zap.NewNop())
	h := setupRunner(source, exec)

	// Act
	h.feed(t, ticksFromPrices([]float64{100, 100, 100}))

	// Assert
	sink.AssertNumberOfCalls(t, "PlaceOrder", 1)
	assert.Equal(t, 1, h.journal.Len())
	assert.Equal(t, 1.0, h.gate.Exposure())
}

// A BUY signal at the exposure limit is rejected: no dispatch, no mutation.
func TestRunner_BuyRejectedAtExposureLimit(t *testing.T) {
	// Arrange: exposure already at max_position
	sink := new(MockOrderSink)
	source := strategy.NewScripted("BTCUSDT", models.SignalBuy)
	exec := executor.New(sink, true, time.Second, zap.NewNop())
	h := setupRunner(source, exec)
	h.gate.ApplyFill(models.SideBuy, 1)

	// Act
	h.feed(t, ticksFromPrices([]float64{100}))

	// Assert
	sink.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
	assert.Equal(t, 0, h.journal.Len())
	assert.Equal(t, 1.0, h.gate.Exposure())
}

// A sink failure surfaces as a logged error; position, exposure, and the
// journal are untouched. The accepted signal still becomes the last one, so
// the same directive will not be retried until the signal transitions again.
func TestRunner_SinkFailureLeavesStateUnchanged(t *testing.T) {
	// Arrange
	sink := new(MockOrderSink)
	sink.On("PlaceOrder", mock.Anything, mock.Anything).Return(nil, errors.New("exchange unreachable"))

	source := strategy.NewScripted("BTCUSDT", models.SignalBuy, models.SignalBuy)
	exec := executor.New(sink, true, time.Second, zap.NewNop())
	h := setupRunner(source, exec)

	// Act
	h.feed(t, ticksFromPrices([]float64{100, 101}))

	// Assert: one attempt (the duplicate is suppressed), nothing recorded
	sink.AssertNumberOfCalls(t, "PlaceOrder", 1)
	assert.Equal(t, 0, h.journal.Len())
	assert.Equal(t, 0.0, h.gate.Exposure())
	assert.Equal(t, 0.0, h.ledger.Snapshot().Quantity)
	assert.Equal(t, models.SignalBuy, h.gate.LastAccepted())
}

// HOLD ticks flow through without touching the gate or the executor.
func TestRunner_HoldDoesNothing(t *testing.T) {
	sink := new(MockOrderSink)
	source := strategy.NewScripted("BTCUSDT") // exhausted script: HOLD forever
	exec := executor.New(sink, true, time.Second, zap.NewNop())
	h := setupRunner(source, exec)

	h.feed(t, ticksFromPrices([]float64{100, 101, 102}))

	sink.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
	assert.Equal(t, 0, h.journal.Len())
	assert.Equal(t, models.SignalNone, h.gate.LastAccepted())
}

// Cancellation stops intake and still produces the final report path without
// panicking on an empty journal.
func TestRunner_ContextCancelStopsLoop(t *testing.T) {
	source := strategy.NewScripted("BTCUSDT")
	exec := executor.New(nil, false, time.Second, zap.NewNop())
	h := setupRunner(source, exec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		h.runner.Run(ctx, make(chan models.Tick))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop on context cancellation")
	}
	assert.False(t, h.runner.Status().IsRunning)
}
