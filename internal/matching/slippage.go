package matching

import (
	"github.com/shopspring/decimal"

	"github.com/quantfold/matchsim/internal/types"
)

// ratioScale is the fractional precision used for the two slippage
// ratio divisions. Additions and multiplications on decimals are exact;
// only these divisions round, half-up at 16 digits.
const ratioScale = 16

var (
	one = decimal.NewFromInt(1)
	ten = decimal.NewFromInt(10)
)

// slippageAmount computes the adverse price adjustment for one fill.
// All three formulas keep the result non-negative as long as the
// config's base value is non-negative, which Validate guarantees.
func slippageAmount(model types.SlippageModel, base, price, orderVolume decimal.Decimal, quote *types.Quote) decimal.Decimal {
	switch model {
	case types.SlippageVolumeScaled:
		if quote.LastVolume.IsPositive() {
			ratio := orderVolume.DivRound(quote.LastVolume, ratioScale)
			return base.Mul(price).Mul(one.Add(ratio))
		}
		// No quote volume to scale by: same as the fixed model.
		return base.Mul(price)

	case types.SlippageVolatilityScaled:
		mid := quote.Mid()
		ratio := decimal.Zero
		// A crossed or one-sided book yields a negative spread; the
		// widening ratio floors at zero so slippage stays non-negative.
		if mid.IsPositive() && quote.Spread().IsPositive() {
			ratio = ten.Mul(quote.Spread()).DivRound(mid, ratioScale)
		}
		return base.Mul(price).Mul(one.Add(ratio))

	default: // types.SlippageFixed
		return base.Mul(price)
	}
}

// applySlippage widens the fill price away from the counterparty's
// favor: up for a long fill, down for a short fill. The price floors
// at zero to preserve the trade-record invariant.
func applySlippage(price, slippage decimal.Decimal, direction types.Direction) decimal.Decimal {
	if direction == types.DirectionLong {
		return price.Add(slippage)
	}
	adjusted := price.Sub(slippage)
	if adjusted.IsNegative() {
		return decimal.Zero
	}
	return adjusted
}
