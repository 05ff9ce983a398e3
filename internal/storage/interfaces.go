// Package storage provides trade-record sinks for the audit/ledger
// side of a backtest: the engine returns trades, the driver persists
// them here. The engine itself never touches storage.
package storage

import "github.com/quantfold/matchsim/internal/types"

// TradeStore abstracts trade persistence and retrieval.
// Implementations can be an in-memory buffer, an append-only file log,
// Redis, or PostgreSQL.
type TradeStore interface {
	// Save persists a single trade record
	Save(trade *types.TradeRecord) error

	// SaveBatch persists the trades of one quote step in order
	SaveBatch(trades []*types.TradeRecord) error

	// GetRecent retrieves the N most recent trade records
	GetRecent(limit int) ([]*types.TradeRecord, error)

	// Close releases any resources held by the store
	Close() error
}
