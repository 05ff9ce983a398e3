package matching

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/quantfold/matchsim/internal/types"
)

// Ledger is the append-only trade history of one engine. Records enter
// once and are never mutated or deleted.
type Ledger struct {
	trades []types.TradeRecord
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append records one trade.
func (l *Ledger) Append(t types.TradeRecord) {
	l.trades = append(l.trades, t)
}

// Trades returns a snapshot copy of the full history.
func (l *Ledger) Trades() []types.TradeRecord {
	out := make([]types.TradeRecord, len(l.trades))
	copy(out, l.trades)
	return out
}

// Len returns the number of recorded trades.
func (l *Ledger) Len() int {
	return len(l.trades)
}

// SlippagePercentiles is a point-in-time snapshot of the slippage
// distribution across all recorded trades.
type SlippagePercentiles struct {
	P25 decimal.Decimal `json:"p25"`
	P50 decimal.Decimal `json:"p50"`
	P75 decimal.Decimal `json:"p75"`
	P95 decimal.Decimal `json:"p95"`
}

// Percentiles computes the 25th/50th/75th/95th slippage percentiles
// from a sorted copy of the recorded slippages, nearest-rank method.
// It is an on-demand query, not incrementally maintained.
func (l *Ledger) Percentiles() (SlippagePercentiles, bool) {
	if len(l.trades) == 0 {
		return SlippagePercentiles{}, false
	}

	slippages := make([]decimal.Decimal, len(l.trades))
	for i, t := range l.trades {
		slippages[i] = t.Slippage
	}
	sort.Slice(slippages, func(i, j int) bool {
		return slippages[i].LessThan(slippages[j])
	})

	at := func(pct int) decimal.Decimal {
		idx := (pct*len(slippages) + 99) / 100
		if idx > 0 {
			idx--
		}
		return slippages[idx]
	}

	return SlippagePercentiles{
		P25: at(25),
		P50: at(50),
		P75: at(75),
		P95: at(95),
	}, true
}
