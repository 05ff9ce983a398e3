package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quantfold/matchsim/internal/types"
)

const tradesKey = "backtest:trades"

// TradeStore persists trade records in a Redis sorted set keyed by
// execution timestamp, with FIFO eviction beyond MaxTrades.
type TradeStore struct {
	client    *redis.Client
	maxTrades int
}

// NewTradeStore creates a Redis-backed trade store
func NewTradeStore(cfg Config) (*TradeStore, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &TradeStore{
		client:    client,
		maxTrades: cfg.MaxTrades,
	}, nil
}

func (s *TradeStore) Save(trade *types.TradeRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	data, err := json.Marshal(trade)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.ZAdd(ctx, tradesKey, redis.Z{
		Score:  float64(trade.Timestamp.UnixNano()),
		Member: data,
	})
	pipe.ZRemRangeByRank(ctx, tradesKey, 0, int64(-s.maxTrades-1))

	_, err = pipe.Exec(ctx)
	return err
}

func (s *TradeStore) SaveBatch(trades []*types.TradeRecord) error {
	if len(trades) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pipe := s.client.Pipeline()
	for _, trade := range trades {
		data, err := json.Marshal(trade)
		if err != nil {
			return err
		}
		pipe.ZAdd(ctx, tradesKey, redis.Z{
			Score:  float64(trade.Timestamp.UnixNano()),
			Member: data,
		})
	}
	pipe.ZRemRangeByRank(ctx, tradesKey, 0, int64(-s.maxTrades-1))

	_, err := pipe.Exec(ctx)
	return err
}

func (s *TradeStore) GetRecent(limit int) ([]*types.TradeRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}

	raw, err := s.client.ZRevRange(ctx, tradesKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	trades := make([]*types.TradeRecord, 0, len(raw))
	for _, member := range raw {
		var trade types.TradeRecord
		if err := json.Unmarshal([]byte(member), &trade); err != nil {
			continue
		}
		trades = append(trades, &trade)
	}
	return trades, nil
}

func (s *TradeStore) Close() error {
	return s.client.Close()
}
