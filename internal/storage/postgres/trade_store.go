package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/quantfold/matchsim/internal/types"
)

// TradeStore persists trade records in PostgreSQL. Monetary columns
// are NUMERIC and travel as decimal strings in both directions, so the
// database never sees a binary-float rendition of a price.
type TradeStore struct {
	pool *pgxpool.Pool
}

// NewTradeStore creates a PostgreSQL-backed trade store and runs the
// schema migration.
func NewTradeStore(cfg Config) (*TradeStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &TradeStore{pool: pool}, nil
}

const insertTrade = `
	INSERT INTO trades (trade_id, order_id, symbol, venue, direction, offset_flag,
		price, volume, turnover, commission, slippage,
		mode, queue_level, queue_wait_sec, executed_at, manual)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	ON CONFLICT (trade_id) DO NOTHING
`

func insertArgs(t *types.TradeRecord) []interface{} {
	var queueLevel *int
	if t.QueueLevel != nil {
		lvl := int(*t.QueueLevel)
		queueLevel = &lvl
	}
	return []interface{}{
		t.ID, t.OrderID, t.Symbol, t.Venue, string(t.Direction), string(t.Offset),
		t.Price.String(), t.Volume.String(), t.Turnover.String(),
		t.Commission.String(), t.Slippage.String(),
		string(t.Mode), queueLevel, t.QueueWaitSec, t.Timestamp, t.Manual,
	}
}

func (s *TradeStore) Save(trade *types.TradeRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.pool.Exec(ctx, insertTrade, insertArgs(trade)...)
	return err
}

func (s *TradeStore) SaveBatch(trades []*types.TradeRecord) error {
	if len(trades) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	batch := &pgx.Batch{}
	for _, trade := range trades {
		batch.Queue(insertTrade, insertArgs(trade)...)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range trades {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (s *TradeStore) GetRecent(limit int) ([]*types.TradeRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT trade_id, order_id, symbol, venue, direction, offset_flag,
			price::text, volume::text, turnover::text, commission::text, slippage::text,
			mode, queue_level, queue_wait_sec, executed_at, manual
		FROM trades
		ORDER BY executed_at DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []*types.TradeRecord
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}
	return trades, rows.Err()
}

func scanTrade(rows pgx.Rows) (*types.TradeRecord, error) {
	var t types.TradeRecord
	var direction, offset, mode string
	var price, volume, turnover, commission, slippage string
	var queueLevel *int

	err := rows.Scan(&t.ID, &t.OrderID, &t.Symbol, &t.Venue, &direction, &offset,
		&price, &volume, &turnover, &commission, &slippage,
		&mode, &queueLevel, &t.QueueWaitSec, &t.Timestamp, &t.Manual)
	if err != nil {
		return nil, err
	}

	t.Direction = types.Direction(direction)
	t.Offset = types.Offset(offset)
	t.Mode = types.MatchMode(mode)
	if queueLevel != nil {
		lvl := types.QueueLevel(*queueLevel)
		t.QueueLevel = &lvl
	}

	for _, field := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&t.Price, price}, {&t.Volume, volume}, {&t.Turnover, turnover},
		{&t.Commission, commission}, {&t.Slippage, slippage},
	} {
		d, err := decimal.NewFromString(field.src)
		if err != nil {
			return nil, fmt.Errorf("trade %s: bad numeric %q: %w", t.ID, field.src, err)
		}
		*field.dst = d
	}

	return &t, nil
}

func (s *TradeStore) Close() error {
	s.pool.Close()
	return nil
}
