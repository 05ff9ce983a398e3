package types

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 5, 6, 9, 30, 0, 0, time.UTC)

func TestNewOrderValid(t *testing.T) {
	o, err := NewOrder("ORD-1", "BTCUSD", "SIM", DirectionLong, OffsetOpen,
		decimal.RequireFromString("50000"), decimal.RequireFromString("2"), testTime)
	require.NoError(t, err)

	assert.Equal(t, "ORD-1", o.ID)
	assert.Equal(t, StatusPending, o.Status)
	assert.True(t, o.Active())
	assert.False(t, o.IsMarket())
	assert.True(t, o.Remaining().Equal(decimal.RequireFromString("2")))
	assert.Equal(t, testTime, o.CreatedAt)
}

func TestNewOrderGeneratesID(t *testing.T) {
	o, err := NewOrder("", "BTCUSD", "SIM", DirectionShort, OffsetClose,
		decimal.Zero, decimal.NewFromInt(1), testTime)
	require.NoError(t, err)

	assert.NotEmpty(t, o.ID)
	assert.True(t, o.IsMarket())
}

func TestNewOrderRejectsInvalid(t *testing.T) {
	price := decimal.NewFromInt(100)
	volume := decimal.NewFromInt(1)

	tests := []struct {
		name      string
		symbol    string
		direction Direction
		offset    Offset
		price     decimal.Decimal
		volume    decimal.Decimal
	}{
		{"empty symbol", "", DirectionLong, OffsetOpen, price, volume},
		{"bad direction", "BTCUSD", Direction("sideways"), OffsetOpen, price, volume},
		{"bad offset", "BTCUSD", DirectionLong, Offset("hold"), price, volume},
		{"negative price", "BTCUSD", DirectionLong, OffsetOpen, decimal.NewFromInt(-1), volume},
		{"zero volume", "BTCUSD", DirectionLong, OffsetOpen, price, decimal.Zero},
		{"negative volume", "BTCUSD", DirectionLong, OffsetOpen, price, decimal.NewFromInt(-5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrder("X", tt.symbol, "SIM", tt.direction, tt.offset, tt.price, tt.volume, testTime)
			assert.Error(t, err)
		})
	}
}

func TestOrderValidateTradedBounds(t *testing.T) {
	o, err := NewOrder("ORD-2", "BTCUSD", "SIM", DirectionLong, OffsetOpen,
		decimal.NewFromInt(100), decimal.NewFromInt(10), testTime)
	require.NoError(t, err)

	o.Traded = decimal.NewFromInt(11)
	assert.Error(t, o.Validate())

	o.Traded = decimal.NewFromInt(-1)
	assert.Error(t, o.Validate())

	o.Traded = decimal.NewFromInt(10)
	assert.NoError(t, o.Validate())
	assert.True(t, o.Remaining().IsZero())
}

func TestStatusActive(t *testing.T) {
	assert.True(t, StatusPending.Active())
	assert.True(t, StatusPartiallyFilled.Active())
	assert.False(t, StatusFilled.Active())
	assert.False(t, StatusCancelled.Active())
	assert.False(t, StatusRejected.Active())
}
