package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/matchsim/internal/types"
)

// restingLong is a limit buy below the ask, so it never crosses.
func restingLong(t *testing.T, price, volume string) *types.Order {
	return newOrder(t, "R", types.DirectionLong, price, volume, t0)
}

func TestLevel2MarketOrderBypassesQueue(t *testing.T) {
	s := newLevel2Strategy(types.QueueLevelMicro)
	q := newQuote(t0, "49990", "50010")

	o := newOrder(t, "M", types.DirectionLong, "0", "1", t0)
	fill, ok := s.TryFill(o, q, t0)
	require.True(t, ok)
	assert.True(t, fill.Price.Equal(d("50010")))
	assert.True(t, fill.Volume.Equal(d("1")))
	assert.True(t, fill.HasQueue)
	assert.Equal(t, types.QueueLevelMicro, fill.QueueLevel)
	assert.Zero(t, fill.QueueWaitSec)
}

func TestLevel2CrossingLimitBypassesQueue(t *testing.T) {
	s := newLevel2Strategy(types.QueueLevelBook)
	q := newQuote(t0, "49990", "50010")

	o := newOrder(t, "C", types.DirectionLong, "50015", "2", t0)
	fill, ok := s.TryFill(o, q, t0)
	require.True(t, ok)
	assert.True(t, fill.Price.Equal(d("50010")))
	assert.True(t, fill.Volume.Equal(d("2")))
	assert.Zero(t, fill.QueueWaitSec)
}

func TestLevel2TimeBased(t *testing.T) {
	s := newLevel2Strategy(types.QueueLevelTime)
	o := restingLong(t, "49990", "5")

	t.Run("too early", func(t *testing.T) {
		q := newQuote(t0.Add(500*time.Millisecond), "49990", "50010")
		_, ok := s.TryFill(o, q, t0)
		assert.False(t, ok)
	})

	t.Run("fills at threshold with full volume at limit price", func(t *testing.T) {
		q := newQuote(t0.Add(2*time.Second), "49990", "50010")
		fill, ok := s.TryFill(o, q, t0)
		require.True(t, ok)
		assert.True(t, fill.Price.Equal(d("49990")))
		assert.True(t, fill.Volume.Equal(d("5")))
		assert.Equal(t, types.QueueLevelTime, fill.QueueLevel)
		assert.InDelta(t, 2.0, fill.QueueWaitSec, 1e-9)
	})
}

func TestLevel2BookBasedRequiresTradedVolume(t *testing.T) {
	s := newLevel2Strategy(types.QueueLevelBook)
	o := restingLong(t, "100", "5")

	q := newQuote(t0.Add(2*time.Second), "100", "101")
	q.LastVolume = d("0")
	_, ok := s.TryFill(o, q, t0)
	assert.False(t, ok, "no traded volume means no evidence of book activity")
}

func TestLevel2BookBasedPartialFill(t *testing.T) {
	s := newLevel2Strategy(types.QueueLevelBook)
	o := restingLong(t, "100", "5")

	q := newQuote(t0.Add(2*time.Second), "100", "101")
	q.LastVolume = d("2")
	q.BidLevels = []types.PriceLevel{
		{Price: d("100"), Volume: d("3")},
		{Price: d("99"), Volume: d("7")},
	}

	fill, ok := s.TryFill(o, q, t0)
	require.True(t, ok)
	assert.True(t, fill.Price.Equal(d("100")))
	assert.True(t, fill.Volume.Equal(d("2")), "capped at the quote's traded volume")
	// Queue ahead is the 3 resting at 100; wait = 3 / 2 traded per tick.
	assert.InDelta(t, 1.5, fill.QueueWaitSec, 1e-9)
}

func TestLevel2BookBasedFallsBackWithoutDepth(t *testing.T) {
	s := newLevel2Strategy(types.QueueLevelBook)
	o := restingLong(t, "100", "5")

	q := newQuote(t0.Add(3*time.Second), "100", "101")
	q.LastVolume = d("10")

	fill, ok := s.TryFill(o, q, t0)
	require.True(t, ok)
	assert.InDelta(t, 3.0, fill.QueueWaitSec, 1e-9, "no ladder degrades to the time estimate")
	assert.True(t, fill.Volume.Equal(d("5")))
}

func TestLevel2MicrostructureConditions(t *testing.T) {
	s := newLevel2Strategy(types.QueueLevelMicro)
	o := restingLong(t, "100", "5")

	depth := []types.PriceLevel{
		{Price: d("100"), Volume: d("3")},
		{Price: d("99"), Volume: d("7")},
	}

	t.Run("needs double the wait", func(t *testing.T) {
		q := newQuote(t0.Add(1500*time.Millisecond), "100", "101")
		q.LastVolume = d("6")
		q.BidLevels = depth
		_, ok := s.TryFill(o, q, t0)
		assert.False(t, ok)
	})

	t.Run("needs traded volume above the order's", func(t *testing.T) {
		q := newQuote(t0.Add(3*time.Second), "100", "101")
		q.LastVolume = d("5")
		q.BidLevels = depth
		_, ok := s.TryFill(o, q, t0)
		assert.False(t, ok)
	})

	t.Run("fills fully with hidden-liquidity inflated wait", func(t *testing.T) {
		q := newQuote(t0.Add(3*time.Second), "100", "101")
		q.LastVolume = d("6")
		q.BidLevels = depth
		fill, ok := s.TryFill(o, q, t0)
		require.True(t, ok)
		assert.True(t, fill.Volume.Equal(d("5")))
		// 3 ahead * 1.2 hidden factor / 6 traded.
		assert.InDelta(t, 0.6, fill.QueueWaitSec, 1e-9)
	})
}

func TestQueueAheadSumsAtOrBetterPrices(t *testing.T) {
	long := restingLong(t, "100", "5")
	q := newQuote(t0, "100", "101")
	q.BidLevels = []types.PriceLevel{
		{Price: d("101"), Volume: d("2")},
		{Price: d("100"), Volume: d("3")},
		{Price: d("99"), Volume: d("7")},
	}
	assert.True(t, queueAhead(long, q).Equal(d("5")))

	short := newOrder(t, "S", types.DirectionShort, "102", "5", t0)
	q.AskLevels = []types.PriceLevel{
		{Price: d("101"), Volume: d("4")},
		{Price: d("102"), Volume: d("6")},
		{Price: d("103"), Volume: d("9")},
	}
	assert.True(t, queueAhead(short, q).Equal(d("10")))
}
