package types

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord is one simulated fill. Records are immutable once
// constructed: they are appended to the trade ledger and never mutated
// or deleted.
//
// QueueLevel and QueueWaitSec are present exactly when Mode is level-2.
type TradeRecord struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Symbol  string `json:"symbol"`
	Venue   string `json:"venue"`

	Direction Direction `json:"direction"`
	Offset    Offset    `json:"offset"`

	Price      decimal.Decimal `json:"price"`
	Volume     decimal.Decimal `json:"volume"`
	Turnover   decimal.Decimal `json:"turnover"`
	Commission decimal.Decimal `json:"commission"`
	Slippage   decimal.Decimal `json:"slippage"`

	Mode         MatchMode   `json:"mode"`
	QueueLevel   *QueueLevel `json:"queue_level,omitempty"`
	QueueWaitSec *float64    `json:"queue_wait_sec,omitempty"`

	Timestamp time.Time `json:"timestamp"`
	Manual    bool      `json:"manual"`
}

// NewTradeRecord validates t's construction invariants and returns it.
// Violations are rejected before the record can enter a ledger.
func NewTradeRecord(t TradeRecord) (TradeRecord, error) {
	if t.ID == "" {
		return TradeRecord{}, fmt.Errorf("trade: empty id")
	}
	if t.OrderID == "" {
		return TradeRecord{}, fmt.Errorf("trade %s: empty order id", t.ID)
	}
	if !t.Direction.Valid() {
		return TradeRecord{}, fmt.Errorf("trade %s: invalid direction %q", t.ID, t.Direction)
	}
	if !t.Offset.Valid() {
		return TradeRecord{}, fmt.Errorf("trade %s: invalid offset %q", t.ID, t.Offset)
	}
	if t.Price.IsNegative() {
		return TradeRecord{}, fmt.Errorf("trade %s: negative price %s", t.ID, t.Price)
	}
	if !t.Volume.IsPositive() {
		return TradeRecord{}, fmt.Errorf("trade %s: volume %s must be positive", t.ID, t.Volume)
	}
	if t.Commission.IsNegative() {
		return TradeRecord{}, fmt.Errorf("trade %s: negative commission %s", t.ID, t.Commission)
	}
	if t.Slippage.IsNegative() {
		return TradeRecord{}, fmt.Errorf("trade %s: negative slippage %s", t.ID, t.Slippage)
	}
	if !t.Turnover.Equal(t.Price.Mul(t.Volume)) {
		return TradeRecord{}, fmt.Errorf("trade %s: turnover %s != price*volume %s",
			t.ID, t.Turnover, t.Price.Mul(t.Volume))
	}

	switch t.Mode {
	case ModeLevel1:
		if t.QueueLevel != nil || t.QueueWaitSec != nil {
			return TradeRecord{}, fmt.Errorf("trade %s: level-1 trade carries queue fields", t.ID)
		}
	case ModeLevel2:
		if t.QueueLevel == nil || t.QueueWaitSec == nil {
			return TradeRecord{}, fmt.Errorf("trade %s: level-2 trade missing queue fields", t.ID)
		}
		if !t.QueueLevel.Valid() {
			return TradeRecord{}, fmt.Errorf("trade %s: invalid queue level %d", t.ID, *t.QueueLevel)
		}
		if *t.QueueWaitSec < 0 {
			return TradeRecord{}, fmt.Errorf("trade %s: negative queue wait %f", t.ID, *t.QueueWaitSec)
		}
	default:
		return TradeRecord{}, fmt.Errorf("trade %s: invalid mode %q", t.ID, t.Mode)
	}

	return t, nil
}
