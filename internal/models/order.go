package models

import "errors"

// Order request validation failures. These are local to a single call: a
// rejected request never mutates any trading state.
var (
	ErrLimitPriceRequired   = errors.New("limit order requires a price")
	ErrUnsupportedOrderType = errors.New("unsupported order type")
)

// OrderRequest describes one order to be submitted to the order sink.
type OrderRequest struct {
	Symbol   string
	Side     Side
	Type     string // OrderTypeMarket or OrderTypeLimit
	Quantity float64
	Price    float64 // required for LIMIT, ignored for MARKET
}

// Validate checks the request for structural problems before it is sent.
// A LIMIT order without a price is rejected rather than silently defaulted.
func (r OrderRequest) Validate() error {
	switch r.Type {
	case OrderTypeMarket:
		return nil
	case OrderTypeLimit:
		if r.Price <= 0 {
			return ErrLimitPriceRequired
		}
		return nil
	default:
		return ErrUnsupportedOrderType
	}
}

// OrderResult is the sink's report of an accepted order.
type OrderResult struct {
	OrderID  string
	Status   string
	Price    float64 // average execution price as reported, 0 if unknown
	Quantity float64 // executed quantity as reported, 0 if unknown
}
