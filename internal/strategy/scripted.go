package strategy

import "github.com/Yulong-Cauli/Fast-Quant-Core/internal/models"

// Scripted replays a predetermined signal sequence, one signal per tick, and
// HOLD once the script is exhausted. It is the stub counterpart of DualMA
// for tests and for wiring the loop without the native engine.
type Scripted struct {
	symbol  string
	signals []models.Signal
	next    int
}

var _ SignalSource = (*Scripted)(nil)

// NewScripted creates a scripted source for one symbol.
func NewScripted(symbol string, signals ...models.Signal) *Scripted {
	return &Scripted{symbol: symbol, signals: signals}
}

// OnTick returns the next scripted signal. Ticks for other symbols do not
// advance the script.
func (s *Scripted) OnTick(tick models.Tick) models.Signal {
	if tick.Symbol != s.symbol {
		return models.SignalHold
	}
	if s.next >= len(s.signals) {
		return models.SignalHold
	}
	signal := s.signals[s.next]
	s.next++
	return signal
}

// FastIndicator always returns zero; the stub has no indicators.
func (s *Scripted) FastIndicator() float64 { return 0 }

// SlowIndicator always returns zero; the stub has no indicators.
func (s *Scripted) SlowIndicator() float64 { return 0 }

// Symbol returns the watched instrument.
func (s *Scripted) Symbol() string { return s.symbol }
