package models

import "gorm.io/gorm"

// Trade represents a single completed fill. Records are immutable once
// written: the PnL field is stamped by the ledger when the fill reduces an
// open position, and never touched again.
type Trade struct {
	gorm.Model
	Symbol       string  `json:"symbol"`
	Side         Side    `json:"side"`
	Price        float64 `json:"price"`
	Quantity     float64 `json:"quantity"`
	Pnl          float64 `json:"pnl"`       // realized PnL, non-zero only on reducing SELLs
	Timestamp    int64   `json:"timestamp"` // fill time in milliseconds
	IsSimulation bool    `json:"is_simulation"`
}
