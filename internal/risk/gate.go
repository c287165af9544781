package risk

import (
	"sync"

	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var (
	metricAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_signals_accepted_total",
		Help: "Signals that passed the risk gate",
	})
	metricSuppressed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_signals_suppressed_total",
		Help: "Signals suppressed as duplicates of the last accepted signal",
	})
	metricRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_signals_rejected_total",
		Help: "Signals rejected by the exposure limit",
	})
	metricExposure = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bot_net_exposure",
		Help: "Signed net exposure maintained from accepted fills",
	})
)

func init() {
	prometheus.MustRegister(metricAccepted, metricSuppressed, metricRejected, metricExposure)
}

// Decision is the outcome of gating one signal.
type Decision int

const (
	// NoAction means the signal was HOLD; nothing to gate.
	NoAction Decision = iota
	// Accept means the caller should proceed to order dispatch.
	Accept
	// SuppressDuplicate means the signal equals the last accepted one and
	// must not trigger a second dispatch while the trend persists.
	SuppressDuplicate
	// RejectLongLimit means a BUY would breach the upper exposure bound.
	RejectLongLimit
	// RejectShortLimit means a SELL would breach the lower exposure bound.
	RejectShortLimit
)

func (d Decision) String() string {
	switch d {
	case NoAction:
		return "NO_ACTION"
	case Accept:
		return "ACCEPT"
	case SuppressDuplicate:
		return "SUPPRESS_DUPLICATE"
	case RejectLongLimit:
		return "REJECT_LONG_LIMIT"
	case RejectShortLimit:
		return "REJECT_SHORT_LIMIT"
	}
	return "UNKNOWN"
}

// Gate is the stateful filter in front of order dispatch. It debounces
// repeated identical signals and enforces the configured exposure bounds.
//
// The gate maintains its own signed net exposure from accepted fills. This
// tracker is deliberately independent of the ledger's non-negative quantity:
// the two agree only while no oversell has occurred. See the dual-tracker
// note in DESIGN.md.
type Gate struct {
	mu           sync.Mutex
	lastAccepted models.Signal
	exposure     float64
	maxPosition  float64

	logger *zap.Logger
}

// NewGate creates a gate with no accepted signal and zero exposure.
func NewGate(maxPosition float64, logger *zap.Logger) *Gate {
	return &Gate{
		lastAccepted: models.SignalNone,
		maxPosition:  maxPosition,
		logger:       logger,
	}
}

// Evaluate makes the single synchronous gate decision for one tick. On
// Accept the signal becomes the new last-accepted signal; on any other
// outcome the gate state is unchanged.
func (g *Gate) Evaluate(signal models.Signal, currentExposure float64) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	if signal == models.SignalHold {
		return NoAction
	}

	if signal == g.lastAccepted {
		metricSuppressed.Inc()
		g.logger.Debug("Suppressing duplicate signal", zap.String("signal", string(signal)))
		return SuppressDuplicate
	}

	if signal == models.SignalBuy && currentExposure >= g.maxPosition {
		metricRejected.Inc()
		g.logger.Warn("Exposure at upper bound, ignoring BUY signal",
			zap.Float64("exposure", currentExposure),
			zap.Float64("max_position", g.maxPosition),
		)
		return RejectLongLimit
	}

	if signal == models.SignalSell && currentExposure <= -g.maxPosition {
		metricRejected.Inc()
		g.logger.Warn("Exposure at lower bound, ignoring SELL signal",
			zap.Float64("exposure", currentExposure),
			zap.Float64("max_position", g.maxPosition),
		)
		return RejectShortLimit
	}

	g.lastAccepted = signal
	metricAccepted.Inc()
	return Accept
}

// ApplyFill updates the net exposure after a successful fill.
func (g *Gate) ApplyFill(side models.Side, quantity float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if side == models.SideBuy {
		g.exposure += quantity
	} else {
		g.exposure -= quantity
	}
	metricExposure.Set(g.exposure)
}

// Exposure returns the current signed net exposure.
func (g *Gate) Exposure() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.exposure
}

// LastAccepted returns the last signal that passed the gate.
func (g *Gate) LastAccepted() models.Signal {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastAccepted
}
