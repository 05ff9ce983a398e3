package matching

import (
	"github.com/shopspring/decimal"

	"github.com/quantfold/matchsim/internal/types"
)

// qualityMetrics accumulates matching-quality statistics incrementally:
// every counter and running sum is extended as events happen, never
// recomputed from the ledger.
type qualityMetrics struct {
	ordersSubmitted       int
	ordersFilled          int
	ordersPartiallyFilled int
	ordersCancelled       int

	totalTurnover   decimal.Decimal
	totalCommission decimal.Decimal

	tradeCount   int
	slippageMin  decimal.Decimal
	slippageMax  decimal.Decimal
	slippageSum  decimal.Decimal
	queueCount   int
	queueWaitMin float64
	queueWaitMax float64
	queueWaitSum float64

	submittedVolume decimal.Decimal
	filledVolume    decimal.Decimal
}

func newQualityMetrics() *qualityMetrics {
	return &qualityMetrics{
		totalTurnover:   decimal.Zero,
		totalCommission: decimal.Zero,
		slippageMin:     decimal.Zero,
		slippageMax:     decimal.Zero,
		slippageSum:     decimal.Zero,
		submittedVolume: decimal.Zero,
		filledVolume:    decimal.Zero,
	}
}

func (m *qualityMetrics) recordSubmit(volume decimal.Decimal) {
	m.ordersSubmitted++
	m.submittedVolume = m.submittedVolume.Add(volume)
}

func (m *qualityMetrics) recordCancel() {
	m.ordersCancelled++
}

func (m *qualityMetrics) recordFullFill() {
	m.ordersFilled++
}

func (m *qualityMetrics) recordPartialFill() {
	m.ordersPartiallyFilled++
}

func (m *qualityMetrics) recordTrade(t types.TradeRecord) {
	m.totalTurnover = m.totalTurnover.Add(t.Turnover)
	m.totalCommission = m.totalCommission.Add(t.Commission)
	m.filledVolume = m.filledVolume.Add(t.Volume)

	if m.tradeCount == 0 || t.Slippage.LessThan(m.slippageMin) {
		m.slippageMin = t.Slippage
	}
	if m.tradeCount == 0 || t.Slippage.GreaterThan(m.slippageMax) {
		m.slippageMax = t.Slippage
	}
	m.slippageSum = m.slippageSum.Add(t.Slippage)
	m.tradeCount++

	if t.QueueWaitSec != nil {
		w := *t.QueueWaitSec
		if m.queueCount == 0 || w < m.queueWaitMin {
			m.queueWaitMin = w
		}
		if m.queueCount == 0 || w > m.queueWaitMax {
			m.queueWaitMax = w
		}
		m.queueWaitSum += w
		m.queueCount++
	}
}

// QueueWaitStats summarizes queue-wait estimates; present only when
// level-2 trades have been recorded.
type QueueWaitStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// QualityMetrics is a read-only snapshot of matching-quality
// statistics. Derived values (means, fill rate) are computed at
// snapshot time from the running sums.
type QualityMetrics struct {
	OrdersSubmitted       int `json:"orders_submitted"`
	OrdersFilled          int `json:"orders_filled"`
	OrdersPartiallyFilled int `json:"orders_partially_filled"`
	OrdersCancelled       int `json:"orders_cancelled"`

	TotalTurnover   decimal.Decimal `json:"total_turnover"`
	TotalCommission decimal.Decimal `json:"total_commission"`

	SlippageMin  decimal.Decimal `json:"slippage_min"`
	SlippageMax  decimal.Decimal `json:"slippage_max"`
	SlippageMean decimal.Decimal `json:"slippage_mean"`

	QueueWait *QueueWaitStats `json:"queue_wait,omitempty"`

	// FillRate is filled volume over total submitted volume, including
	// volume still pending.
	FillRate decimal.Decimal `json:"fill_rate"`
}

func (m *qualityMetrics) snapshot() QualityMetrics {
	snap := QualityMetrics{
		OrdersSubmitted:       m.ordersSubmitted,
		OrdersFilled:          m.ordersFilled,
		OrdersPartiallyFilled: m.ordersPartiallyFilled,
		OrdersCancelled:       m.ordersCancelled,
		TotalTurnover:         m.totalTurnover,
		TotalCommission:       m.totalCommission,
		SlippageMin:           m.slippageMin,
		SlippageMax:           m.slippageMax,
		SlippageMean:          decimal.Zero,
		FillRate:              decimal.Zero,
	}

	if m.tradeCount > 0 {
		snap.SlippageMean = m.slippageSum.DivRound(decimal.NewFromInt(int64(m.tradeCount)), ratioScale)
	}
	if m.queueCount > 0 {
		snap.QueueWait = &QueueWaitStats{
			Min:  m.queueWaitMin,
			Max:  m.queueWaitMax,
			Mean: m.queueWaitSum / float64(m.queueCount),
		}
	}
	if m.submittedVolume.IsPositive() {
		snap.FillRate = m.filledVolume.DivRound(m.submittedVolume, ratioScale)
	}
	return snap
}
