package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceLevel is one rung of a depth ladder.
type PriceLevel struct {
	Price  decimal.Decimal `json:"price"`
	Volume decimal.Decimal `json:"volume"`
}

// Quote is a single market tick. It is a read-only input to each
// matching step and is never retained by the engine.
//
// BidLevels/AskLevels are ordered from the inside of the book outward.
// Empty ladders signal that no depth data is available; book-based queue
// estimation degrades to the time-based estimate in that case.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Venue     string    `json:"venue"`
	Timestamp time.Time `json:"timestamp"`

	LastPrice  decimal.Decimal `json:"last_price"`
	LastVolume decimal.Decimal `json:"last_volume"`

	BidPrice  decimal.Decimal `json:"bid_price"`
	BidVolume decimal.Decimal `json:"bid_volume"`
	AskPrice  decimal.Decimal `json:"ask_price"`
	AskVolume decimal.Decimal `json:"ask_volume"`

	BidLevels []PriceLevel `json:"bid_levels,omitempty"`
	AskLevels []PriceLevel `json:"ask_levels,omitempty"`
}

// HasDepth reports whether the quote carries a multi-level ladder on
// either side.
func (q *Quote) HasDepth() bool {
	return len(q.BidLevels) > 0 || len(q.AskLevels) > 0
}

// Spread returns ask minus bid.
func (q *Quote) Spread() decimal.Decimal {
	return q.AskPrice.Sub(q.BidPrice)
}

// Mid returns the bid/ask midpoint.
func (q *Quote) Mid() decimal.Decimal {
	return q.BidPrice.Add(q.AskPrice).DivRound(decimal.NewFromInt(2), 16)
}
