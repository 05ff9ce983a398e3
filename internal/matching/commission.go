package matching

import "github.com/shopspring/decimal"

// commissionFor computes the commission on one trade from its
// post-slippage turnover: rate times turnover, floored at the
// configured minimum.
func commissionFor(turnover, rate, minimum decimal.Decimal) decimal.Decimal {
	return decimal.Max(turnover.Mul(rate), minimum)
}
