package matching

import (
	"time"

	"github.com/quantfold/matchsim/internal/types"
)

// level1Strategy fills at the touch price assuming infinite liquidity:
// a market order always fills, a limit order fills as soon as its price
// reaches the opposite touch, and every fill is for the order's full
// remaining volume.
type level1Strategy struct{}

func (level1Strategy) TryFill(order *types.Order, quote *types.Quote, _ time.Time) (Fill, bool) {
	touch := touchPrice(order.Direction, quote)
	if !touch.IsPositive() {
		return Fill{}, false
	}

	if order.IsMarket() || crossesTouch(order, touch) {
		return Fill{Price: touch, Volume: order.Remaining()}, true
	}
	return Fill{}, false
}
