package file

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/quantfold/matchsim/internal/types"
)

// TradeStore appends trade records to a JSON-lines file. Writes are
// synchronous so the audit trail preserves exact trade order; reads
// are not supported (layer a memory store in front via the composite).
type TradeStore struct {
	file    *os.File
	encoder *json.Encoder
	mutex   sync.Mutex
}

// NewTradeStore opens (or creates) the append-only trade log
func NewTradeStore(filePath string) (*TradeStore, error) {
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open trade log: %w", err)
	}

	return &TradeStore{
		file:    f,
		encoder: json.NewEncoder(f),
	}, nil
}

func (s *TradeStore) Save(trade *types.TradeRecord) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.encoder.Encode(trade)
}

func (s *TradeStore) SaveBatch(trades []*types.TradeRecord) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, trade := range trades {
		if err := s.encoder.Encode(trade); err != nil {
			return err
		}
	}
	return nil
}

func (s *TradeStore) GetRecent(limit int) ([]*types.TradeRecord, error) {
	// Write-only store; reads come from a fronting memory store.
	return []*types.TradeRecord{}, nil
}

func (s *TradeStore) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}
