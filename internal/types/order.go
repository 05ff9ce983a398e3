package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a trading order submitted to the simulation engine.
// A zero limit price denotes a market order.
type Order struct {
	ID        string          `json:"id"`
	Symbol    string          `json:"symbol"`
	Venue     string          `json:"venue"`
	Direction Direction       `json:"direction"`
	Offset    Offset          `json:"offset"`
	Price     decimal.Decimal `json:"price"`
	Volume    decimal.Decimal `json:"volume"`
	Traded    decimal.Decimal `json:"traded"`
	Status    OrderStatus     `json:"status"`
	Manual    bool            `json:"manual"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewOrder builds a pending order and validates its invariants.
// An empty id is replaced with a generated UUID. createdAt stamps both
// creation and arrival time; the engine uses it for queue-wait estimation,
// so it must come from simulation time, not the wall clock.
func NewOrder(id, symbol, venue string, direction Direction, offset Offset,
	price, volume decimal.Decimal, createdAt time.Time) (*Order, error) {

	if id == "" {
		id = uuid.NewString()
	}

	o := &Order{
		ID:        id,
		Symbol:    symbol,
		Venue:     venue,
		Direction: direction,
		Offset:    offset,
		Price:     price,
		Volume:    volume,
		Traded:    decimal.Zero,
		Status:    StatusPending,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate checks the order's construction invariants.
func (o *Order) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("order: empty id")
	}
	if o.Symbol == "" {
		return fmt.Errorf("order %s: empty symbol", o.ID)
	}
	if !o.Direction.Valid() {
		return fmt.Errorf("order %s: invalid direction %q", o.ID, o.Direction)
	}
	if !o.Offset.Valid() {
		return fmt.Errorf("order %s: invalid offset %q", o.ID, o.Offset)
	}
	if o.Price.IsNegative() {
		return fmt.Errorf("order %s: negative price %s", o.ID, o.Price)
	}
	if !o.Volume.IsPositive() {
		return fmt.Errorf("order %s: volume %s must be positive", o.ID, o.Volume)
	}
	if o.Traded.IsNegative() || o.Traded.GreaterThan(o.Volume) {
		return fmt.Errorf("order %s: traded %s outside [0, %s]", o.ID, o.Traded, o.Volume)
	}
	return nil
}

// Remaining returns the unfilled volume.
func (o *Order) Remaining() decimal.Decimal {
	return o.Volume.Sub(o.Traded)
}

// IsMarket reports whether the order has no limit price.
func (o *Order) IsMarket() bool {
	return o.Price.IsZero()
}

// Active reports whether the order is still eligible for matching.
func (o *Order) Active() bool {
	return o.Status.Active()
}
