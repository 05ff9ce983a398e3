package matching

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantfold/matchsim/internal/types"
)

const (
	// minQueueWaitSec is the modeled time for a resting order to reach
	// the front of its price level's queue.
	minQueueWaitSec = 1.0

	// waitScale is the precision of the queue-position to seconds
	// conversion; queue wait is a model estimate, not a monetary field.
	waitScale = 9
)

// hiddenLiquidityFactor inflates the book-based queue estimate at the
// microstructure level to approximate unseen resting orders.
var hiddenLiquidityFactor = decimal.NewFromFloat(1.2)

// level2Strategy models queue position among other resting orders.
// Market and crossing limit orders bypass queue logic and fill at the
// touch; non-crossing resting orders fill at their own limit price once
// the configured fidelity level's conditions are met, possibly
// partially.
type level2Strategy struct {
	level types.QueueLevel
}

func newLevel2Strategy(level types.QueueLevel) level2Strategy {
	return level2Strategy{level: level}
}

func (s level2Strategy) TryFill(order *types.Order, quote *types.Quote, arrival time.Time) (Fill, bool) {
	touch := touchPrice(order.Direction, quote)

	// Market and crossing limit orders take liquidity; no queue to wait in.
	if touch.IsPositive() && (order.IsMarket() || crossesTouch(order, touch)) {
		return Fill{
			Price:      touch,
			Volume:     order.Remaining(),
			QueueLevel: s.level,
			HasQueue:   true,
		}, true
	}
	if order.IsMarket() {
		return Fill{}, false
	}

	elapsed := quote.Timestamp.Sub(arrival).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}

	wait := elapsed
	volume := order.Remaining()
	fills := false

	switch s.level {
	case types.QueueLevelTime:
		fills = elapsed >= minQueueWaitSec

	case types.QueueLevelBook:
		wait = s.bookWait(order, quote, decimal.NewFromInt(1), elapsed)
		fills = elapsed >= minQueueWaitSec && quote.LastVolume.IsPositive()
		if fills {
			volume = decimal.Min(volume, quote.LastVolume)
		}

	case types.QueueLevelMicro:
		wait = s.bookWait(order, quote, hiddenLiquidityFactor, elapsed)
		fills = elapsed >= 2*minQueueWaitSec && quote.LastVolume.GreaterThan(order.Remaining())
	}

	if !fills || !volume.IsPositive() {
		return Fill{}, false
	}

	return Fill{
		Price:        order.Price,
		Volume:       volume,
		QueueLevel:   s.level,
		QueueWaitSec: wait,
		HasQueue:     true,
	}, true
}

// bookWait estimates queue wait in seconds from the depth ladder: the
// volume resting at prices at-or-better than the order's limit, scaled
// by the inflation factor and divided by the quote's traded volume.
// Without depth data, or without traded volume to rate against, it
// degrades to the elapsed-time estimate.
func (s level2Strategy) bookWait(order *types.Order, quote *types.Quote, factor decimal.Decimal, elapsed float64) float64 {
	if !quote.HasDepth() {
		return elapsed
	}

	ahead := queueAhead(order, quote).Mul(factor)
	if !quote.LastVolume.IsPositive() {
		return elapsed
	}
	return ahead.DivRound(quote.LastVolume, waitScale).InexactFloat64()
}

// queueAhead sums the resting volume at prices at-or-better than the
// order's limit, from the inside of the book outward.
func queueAhead(order *types.Order, quote *types.Quote) decimal.Decimal {
	total := decimal.Zero
	if order.Direction == types.DirectionLong {
		for _, lvl := range quote.BidLevels {
			if lvl.Price.GreaterThanOrEqual(order.Price) {
				total = total.Add(lvl.Volume)
			}
		}
		return total
	}
	for _, lvl := range quote.AskLevels {
		if lvl.Price.LessThanOrEqual(order.Price) {
			total = total.Add(lvl.Volume)
		}
	}
	return total
}
