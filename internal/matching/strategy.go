package matching

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantfold/matchsim/internal/types"
)

// Fill is a strategy's decision for one order against one quote:
// the pre-slippage fill price and the fill volume. Queue fields are
// populated only by the level-2 strategy.
type Fill struct {
	Price  decimal.Decimal
	Volume decimal.Decimal

	QueueLevel   types.QueueLevel
	QueueWaitSec float64
	HasQueue     bool
}

// FillStrategy decides whether and how an active order fills against a
// quote. Implementations are pure with respect to engine state: they
// read the order, the quote and the order's arrival time, and never
// mutate anything.
type FillStrategy interface {
	TryFill(order *types.Order, quote *types.Quote, arrival time.Time) (Fill, bool)
}

// strategyFor selects the strategy for a validated configuration.
func strategyFor(cfg MatchingConfig) FillStrategy {
	switch cfg.Mode {
	case types.ModeLevel2:
		return newLevel2Strategy(cfg.QueueLevel)
	default:
		return level1Strategy{}
	}
}

// touchPrice returns the counterparty's touch for an order: the ask for
// a long, the bid for a short. A zero touch means the quote carries no
// usable price on that side.
func touchPrice(direction types.Direction, quote *types.Quote) decimal.Decimal {
	if direction == types.DirectionLong {
		return quote.AskPrice
	}
	return quote.BidPrice
}

// crossesTouch reports whether a limit price is at or through the
// opposite touch.
func crossesTouch(order *types.Order, touch decimal.Decimal) bool {
	if order.Direction == types.DirectionLong {
		return order.Price.GreaterThanOrEqual(touch)
	}
	return order.Price.LessThanOrEqual(touch)
}
