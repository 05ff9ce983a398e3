package memory

import (
	"sync"

	"github.com/quantfold/matchsim/internal/types"
)

// TradeStore keeps the N most recent trade records in a ring buffer.
type TradeStore struct {
	trades  []*types.TradeRecord
	maxSize int
	mutex   sync.RWMutex
}

// NewTradeStore creates an in-memory trade store with a size limit
func NewTradeStore(maxSize int) *TradeStore {
	return &TradeStore{
		trades:  make([]*types.TradeRecord, 0, maxSize),
		maxSize: maxSize,
	}
}

func (s *TradeStore) Save(trade *types.TradeRecord) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.trades = append(s.trades, trade)
	s.trim()
	return nil
}

func (s *TradeStore) SaveBatch(trades []*types.TradeRecord) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.trades = append(s.trades, trades...)
	s.trim()
	return nil
}

func (s *TradeStore) GetRecent(limit int) ([]*types.TradeRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if limit <= 0 || limit > len(s.trades) {
		limit = len(s.trades)
	}

	start := len(s.trades) - limit
	result := make([]*types.TradeRecord, limit)
	copy(result, s.trades[start:])
	return result, nil
}

func (s *TradeStore) Close() error {
	return nil
}

// trim drops the oldest records beyond maxSize; callers hold the lock.
func (s *TradeStore) trim() {
	if len(s.trades) > s.maxSize {
		s.trades = s.trades[len(s.trades)-s.maxSize:]
	}
}
