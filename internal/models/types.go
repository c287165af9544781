package models

// Side is the direction of an order or trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Signal is the strategy directive for a single tick.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
	// SignalNone marks a risk gate that has not accepted any signal yet.
	SignalNone Signal = "NONE"
)

// Order types accepted by the order sink.
const (
	OrderTypeMarket = "MARKET"
	OrderTypeLimit  = "LIMIT"
)

// Tick is one market update event from the price stream.
type Tick struct {
	Symbol    string
	Price     float64
	Volume    float64
	EventTime int64 // milliseconds
}
