package strategy

import "github.com/Yulong-Cauli/Fast-Quant-Core/internal/models"

// DualMA is the classic two moving-average crossover strategy: BUY when the
// fast average crosses above the slow one (golden cross), SELL when it
// crosses below (death cross), HOLD otherwise.
//
// The source holds a sliding window of the last slowPeriod prices. It emits
// HOLD until the window is full, and the first computed pair of averages is
// only a baseline: a cross needs a previous pair to cross from.
type DualMA struct {
	symbol     string
	fastPeriod int
	slowPeriod int

	prices []float64
	fastMA float64
	slowMA float64
}

var _ SignalSource = (*DualMA)(nil)

// NewDualMA creates a dual moving-average source. fastPeriod must be smaller
// than slowPeriod; config validation enforces that before wiring.
func NewDualMA(symbol string, fastPeriod, slowPeriod int) *DualMA {
	return &DualMA{
		symbol:     symbol,
		fastPeriod: fastPeriod,
		slowPeriod: slowPeriod,
		prices:     make([]float64, 0, slowPeriod+1),
	}
}

// OnTick feeds one price into the window and returns the crossover signal.
// Ticks for other symbols are ignored.
func (s *DualMA) OnTick(tick models.Tick) models.Signal {
	if tick.Symbol != s.symbol {
		return models.SignalHold
	}

	s.prices = append(s.prices, tick.Price)
	if len(s.prices) > s.slowPeriod {
		copy(s.prices, s.prices[1:])
		s.prices = s.prices[:s.slowPeriod]
	}

	if len(s.prices) < s.slowPeriod {
		return models.SignalHold
	}

	newFast := s.movingAverage(s.fastPeriod)
	newSlow := s.movingAverage(s.slowPeriod)
	signal := s.crossover(newFast, newSlow)

	s.fastMA = newFast
	s.slowMA = newSlow

	return signal
}

// Backtest replays a tick slice through the source and returns the signal
// produced for each tick, in order.
func (s *DualMA) Backtest(ticks []models.Tick) []models.Signal {
	signals := make([]models.Signal, 0, len(ticks))
	for _, tick := range ticks {
		signals = append(signals, s.OnTick(tick))
	}
	return signals
}

// FastIndicator returns the current fast moving average.
func (s *DualMA) FastIndicator() float64 { return s.fastMA }

// SlowIndicator returns the current slow moving average.
func (s *DualMA) SlowIndicator() float64 { return s.slowMA }

// Symbol returns the watched instrument.
func (s *DualMA) Symbol() string { return s.symbol }

// FastPeriod returns the fast window length.
func (s *DualMA) FastPeriod() int { return s.fastPeriod }

// SlowPeriod returns the slow window length.
func (s *DualMA) SlowPeriod() int { return s.slowPeriod }

// movingAverage averages the newest period entries of the window.
func (s *DualMA) movingAverage(period int) float64 {
	if len(s.prices) < period {
		return 0
	}
	sum := 0.0
	for _, p := range s.prices[len(s.prices)-period:] {
		sum += p
	}
	return sum / float64(period)
}

// crossover compares the previous average pair against the new one.
func (s *DualMA) crossover(newFast, newSlow float64) models.Signal {
	// First computation: no previous pair to cross from.
	if s.fastMA == 0 || s.slowMA == 0 {
		return models.SignalHold
	}
	if s.fastMA <= s.slowMA && newFast > newSlow {
		return models.SignalBuy
	}
	if s.fastMA >= s.slowMA && newFast < newSlow {
		return models.SignalSell
	}
	return models.SignalHold
}
