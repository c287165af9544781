package strategy

import "github.com/Yulong-Cauli/Fast-Quant-Core/internal/models"

// SignalSource produces one directive per tick. The execution loop treats it
// as a black box: it never inspects indicator internals beyond the two
// queryable values exposed for the status snapshot.
//
// Two implementations exist: DualMA (the native engine) and Scripted (a stub
// used in tests and when the strategy is driven externally).
type SignalSource interface {
	// OnTick feeds one market update and returns the directive for it.
	OnTick(tick models.Tick) models.Signal

	// FastIndicator and SlowIndicator report the current indicator values
	// for logging and monitoring. Zero until the source has warmed up.
	FastIndicator() float64
	SlowIndicator() float64

	// Symbol is the instrument this source watches.
	Symbol() string
}
