package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestQuoteSpreadAndMid(t *testing.T) {
	q := &Quote{
		BidPrice: decimal.RequireFromString("49990"),
		AskPrice: decimal.RequireFromString("50010"),
	}

	assert.True(t, q.Spread().Equal(decimal.RequireFromString("20")))
	assert.True(t, q.Mid().Equal(decimal.RequireFromString("50000")))
}

func TestQuoteMidOddSum(t *testing.T) {
	q := &Quote{
		BidPrice: decimal.RequireFromString("100"),
		AskPrice: decimal.RequireFromString("101"),
	}

	assert.True(t, q.Mid().Equal(decimal.RequireFromString("100.5")), "mid %s", q.Mid())
}

func TestQuoteSpreadNegativeWhenOneSided(t *testing.T) {
	q := &Quote{
		BidPrice: decimal.RequireFromString("49990"),
		AskPrice: decimal.Zero,
	}

	assert.True(t, q.Spread().IsNegative())
	assert.True(t, q.Mid().Equal(decimal.RequireFromString("24995")))
}

func TestQuoteHasDepth(t *testing.T) {
	q := &Quote{}
	assert.False(t, q.HasDepth())

	q.BidLevels = []PriceLevel{{
		Price:  decimal.RequireFromString("49990"),
		Volume: decimal.RequireFromString("3"),
	}}
	assert.True(t, q.HasDepth())
}
