package matching

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/quantfold/matchsim/internal/types"
)

// Engine simulates order execution against a stream of market quotes.
// It is single-threaded and synchronous: one simulation run owns one
// engine, every public call runs to completion, and quotes must arrive
// in non-decreasing timestamp order. The engine performs no I/O.
type Engine struct {
	cfg      *MatchingConfig
	strategy FillStrategy

	registry *Registry
	ledger   *Ledger
	metrics  *qualityMetrics

	tradeSeq uint64
	logger   *zap.Logger
}

// NewEngine creates an engine. cfg may be nil, in which case quotes are
// rejected until Configure is called. A nil logger disables logging.
func NewEngine(cfg *MatchingConfig, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		registry: NewRegistry(),
		ledger:   NewLedger(),
		metrics:  newQualityMetrics(),
		logger:   logger,
	}

	if cfg != nil {
		if err := e.Configure(*cfg); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Configure validates and installs a matching configuration. The config
// is replaced wholesale; already-recorded trades are untouched. Callers
// replace configuration only between simulation runs.
func (e *Engine) Configure(cfg MatchingConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	e.cfg = &cfg
	e.strategy = strategyFor(cfg)
	e.logger.Info("matching configured",
		zap.String("mode", string(cfg.Mode)),
		zap.Int("queue_level", int(cfg.QueueLevel)),
		zap.String("slippage_model", string(cfg.SlippageModel)))
	return nil
}

// SubmitOrder validates an order and registers it for matching. The
// engine keeps its own copy; the returned id identifies the order for
// cancellation and in produced trades.
func (e *Engine) SubmitOrder(o *types.Order) (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}
	if !o.Active() {
		return "", fmt.Errorf("order %s: status %q is not submittable", o.ID, o.Status)
	}

	if err := e.registry.Submit(o); err != nil {
		return "", err
	}

	e.metrics.recordSubmit(o.Remaining())
	e.logger.Debug("order submitted",
		zap.String("order_id", o.ID),
		zap.String("symbol", o.Symbol),
		zap.String("direction", string(o.Direction)),
		zap.String("volume", o.Volume.String()))
	return o.ID, nil
}

// CancelOrder removes an outstanding order immediately. It returns
// false when the id is unknown or already terminal.
func (e *Engine) CancelOrder(id string) bool {
	ok := e.registry.Cancel(id)
	if ok {
		e.metrics.recordCancel()
		e.logger.Debug("order cancelled", zap.String("order_id", id))
	}
	return ok
}

// ProcessQuote matches all active orders on the quote's symbol and
// returns the trades this quote produced. A quote that fills nothing
// returns an empty slice, not an error.
func (e *Engine) ProcessQuote(q *types.Quote) ([]types.TradeRecord, error) {
	if e.cfg == nil {
		return nil, ErrNotConfigured
	}

	var trades []types.TradeRecord
	for _, order := range e.registry.activeOrders(q.Symbol) {
		fill, ok := e.strategy.TryFill(order, q, e.registry.arrival(order.ID))
		if !ok {
			continue
		}

		remaining := order.Remaining()
		if fill.Volume.LessThan(remaining) && !e.cfg.AllowPartialFill {
			// Not enough modeled liquidity for a full fill and partial
			// fills are disallowed: the order keeps waiting.
			continue
		}

		trade, err := e.buildTrade(order, q, fill)
		if err != nil {
			return nil, err
		}

		e.ledger.Append(trade)
		e.metrics.recordTrade(trade)

		left := e.registry.applyFill(order.ID, fill.Volume, q.Timestamp)
		if left.IsPositive() {
			e.metrics.recordPartialFill()
		} else {
			e.metrics.recordFullFill()
		}

		e.logger.Debug("order filled",
			zap.String("order_id", order.ID),
			zap.String("trade_id", trade.ID),
			zap.String("price", trade.Price.String()),
			zap.String("volume", trade.Volume.String()),
			zap.String("remaining", left.String()))

		trades = append(trades, trade)
	}
	return trades, nil
}

// buildTrade layers the cost models onto a strategy fill and constructs
// the immutable trade record.
func (e *Engine) buildTrade(order *types.Order, q *types.Quote, fill Fill) (types.TradeRecord, error) {
	slippage := slippageAmount(e.cfg.SlippageModel, e.cfg.SlippageBase, fill.Price, order.Volume, q)
	price := applySlippage(fill.Price, slippage, order.Direction)
	turnover := price.Mul(fill.Volume)
	commission := commissionFor(turnover, e.cfg.CommissionRate, e.cfg.MinCommission)

	e.tradeSeq++
	record := types.TradeRecord{
		ID:         fmt.Sprintf("T-%06d", e.tradeSeq),
		OrderID:    order.ID,
		Symbol:     order.Symbol,
		Venue:      order.Venue,
		Direction:  order.Direction,
		Offset:     order.Offset,
		Price:      price,
		Volume:     fill.Volume,
		Turnover:   turnover,
		Commission: commission,
		Slippage:   slippage,
		Mode:       e.cfg.Mode,
		Timestamp:  q.Timestamp,
		Manual:     order.Manual,
	}
	if fill.HasQueue {
		level := fill.QueueLevel
		wait := fill.QueueWaitSec
		record.QueueLevel = &level
		record.QueueWaitSec = &wait
	}

	return types.NewTradeRecord(record)
}

// PendingOrders returns a snapshot of the outstanding orders.
func (e *Engine) PendingOrders() []types.Order {
	return e.registry.Pending()
}

// Trades returns a snapshot of the full trade history.
func (e *Engine) Trades() []types.TradeRecord {
	return e.ledger.Trades()
}

// Metrics returns the current quality-metrics snapshot.
func (e *Engine) Metrics() QualityMetrics {
	return e.metrics.snapshot()
}

// SlippagePercentiles computes the slippage distribution snapshot from
// the trade history. The second result is false when no trades exist.
func (e *Engine) SlippagePercentiles() (SlippagePercentiles, bool) {
	return e.ledger.Percentiles()
}
