package risk

import (
	"testing"

	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestGate(maxPosition float64) *Gate {
	return NewGate(maxPosition, zap.NewNop())
}

func TestEvaluate_HoldIsNoAction(t *testing.T) {
	g := newTestGate(1)

	assert.Equal(t, NoAction, g.Evaluate(models.SignalHold, 0))
	assert.Equal(t, models.SignalNone, g.LastAccepted())
}

func TestEvaluate_FirstSignalAccepted(t *testing.T) {
	g := newTestGate(1)

	assert.Equal(t, Accept, g.Evaluate(models.SignalBuy, 0))
	assert.Equal(t, models.SignalBuy, g.LastAccepted())
}

func TestEvaluate_DuplicateSignalSuppressed(t *testing.T) {
	// Arrange
	g := newTestGate(10)
	assert.Equal(t, Accept, g.Evaluate(models.SignalBuy, 0))

	// Act: the same trend signal arrives again on the next tick
	decision := g.Evaluate(models.SignalBuy, 0)

	// Assert: only the first one may dispatch an order
	assert.Equal(t, SuppressDuplicate, decision)
	assert.Equal(t, models.SignalBuy, g.LastAccepted())
}

func TestEvaluate_AlternatingSignalsAccepted(t *testing.T) {
	g := newTestGate(10)

	assert.Equal(t, Accept, g.Evaluate(models.SignalBuy, 0))
	assert.Equal(t, Accept, g.Evaluate(models.SignalSell, 0))
	assert.Equal(t, Accept, g.Evaluate(models.SignalBuy, 0))
}

func TestEvaluate_BuyRejectedAtUpperBound(t *testing.T) {
	// Arrange: exposure already at the limit
	g := newTestGate(1)
	g.ApplyFill(models.SideBuy, 1)

	// Act
	decision := g.Evaluate(models.SignalBuy, g.Exposure())

	// Assert: rejected, gate state untouched
	assert.Equal(t, RejectLongLimit, decision)
	assert.Equal(t, models.SignalNone, g.LastAccepted())
	assert.Equal(t, 1.0, g.Exposure())
}

func TestEvaluate_SellRejectedAtLowerBound(t *testing.T) {
	g := newTestGate(1)
	g.ApplyFill(models.SideSell, 1)

	decision := g.Evaluate(models.SignalSell, g.Exposure())

	assert.Equal(t, RejectShortLimit, decision)
	assert.Equal(t, -1.0, g.Exposure())
}

func TestEvaluate_RejectionDoesNotUpdateLastAccepted(t *testing.T) {
	// Arrange
	g := newTestGate(1)
	assert.Equal(t, Accept, g.Evaluate(models.SignalSell, 0))
	g.ApplyFill(models.SideBuy, 1) // push exposure to the limit by hand

	// Act: BUY is rejected by the limit, so SELL stays the last accepted
	assert.Equal(t, RejectLongLimit, g.Evaluate(models.SignalBuy, g.Exposure()))

	// Assert: a later SELL is still a duplicate
	assert.Equal(t, SuppressDuplicate, g.Evaluate(models.SignalSell, g.Exposure()))
}

func TestApplyFill_TracksSignedExposure(t *testing.T) {
	g := newTestGate(10)

	g.ApplyFill(models.SideBuy, 2)
	g.ApplyFill(models.SideSell, 0.5)
	g.ApplyFill(models.SideSell, 3)

	assert.InDelta(t, -1.5, g.Exposure(), 1e-9)
}

// The gate's signed exposure and the ledger's non-negative quantity are two
// separate trackers. After an oversell the gate goes negative while the
// ledger stays at zero, so the two disagree from then on. Unifying the
// trackers is an open question in DESIGN.md.
func TestExposureDivergesFromLedgerQuantityAfterOversell(t *testing.T) {
	g := newTestGate(10)

	// A sell with nothing held: the ledger would record it with zero PnL and
	// keep quantity at 0, but the exposure tracker goes short.
	g.ApplyFill(models.SideSell, 1)

	assert.Equal(t, -1.0, g.Exposure())
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "ACCEPT", Accept.String())
	assert.Equal(t, "SUPPRESS_DUPLICATE", SuppressDuplicate.String())
	assert.Equal(t, "REJECT_LONG_LIMIT", RejectLongLimit.String())
	assert.Equal(t, "REJECT_SHORT_LIMIT", RejectShortLimit.String())
	assert.Equal(t, "NO_ACTION", NoAction.String())
}
