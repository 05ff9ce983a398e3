package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/quantfold/matchsim/config"
	"github.com/quantfold/matchsim/internal/feed"
	"github.com/quantfold/matchsim/internal/matching"
	"github.com/quantfold/matchsim/internal/storage"
	"github.com/quantfold/matchsim/internal/storage/file"
	"github.com/quantfold/matchsim/internal/storage/memory"
	"github.com/quantfold/matchsim/internal/storage/postgres"
	"github.com/quantfold/matchsim/internal/storage/redis"
	"github.com/quantfold/matchsim/internal/types"
)

// orderSpec is one line of the orders file: an order plus the
// simulation time at which the strategy submits it.
type orderSpec struct {
	ID        string          `json:"id"`
	Symbol    string          `json:"symbol"`
	Venue     string          `json:"venue"`
	Direction types.Direction `json:"direction"`
	Offset    types.Offset    `json:"offset"`
	Price     decimal.Decimal `json:"price"`
	Volume    decimal.Decimal `json:"volume"`
	SubmitAt  time.Time       `json:"submit_at"`
	Manual    bool            `json:"manual"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("backtest failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	matchCfg, err := buildMatchingConfig(cfg.Matching)
	if err != nil {
		return fmt.Errorf("matching configuration: %w", err)
	}

	tradeStore, err := buildTradeStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer func() {
		if err := tradeStore.Close(); err != nil {
			logger.Error("failed to close trade store", zap.Error(err))
		}
	}()

	engine, err := matching.NewEngine(&matchCfg, logger)
	if err != nil {
		return err
	}

	orders, err := loadOrders(cfg.Feed.OrdersPath)
	if err != nil {
		return fmt.Errorf("orders: %w", err)
	}

	quotes, err := feed.OpenQuoteCSV(cfg.Feed.QuotesPath)
	if err != nil {
		return err
	}
	defer quotes.Close()

	logger.Info("backtest starting",
		zap.String("quotes", cfg.Feed.QuotesPath),
		zap.Int("orders", len(orders)),
		zap.String("mode", cfg.Matching.Mode))

	quoteCount, tradeCount := 0, 0
	next := 0
	for {
		quote, err := quotes.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		quoteCount++

		// Submit every order whose strategy timestamp has been reached.
		for next < len(orders) && !orders[next].SubmitAt.After(quote.Timestamp) {
			if err := submit(engine, orders[next]); err != nil {
				return err
			}
			next++
		}

		trades, err := engine.ProcessQuote(quote)
		if err != nil {
			return err
		}
		if len(trades) == 0 {
			continue
		}

		batch := make([]*types.TradeRecord, len(trades))
		for i := range trades {
			batch[i] = &trades[i]
		}
		if err := tradeStore.SaveBatch(batch); err != nil {
			return fmt.Errorf("persisting trades: %w", err)
		}
		tradeCount += len(trades)
	}

	report(engine, logger, quoteCount, tradeCount)
	return nil
}

func submit(engine *matching.Engine, spec orderSpec) error {
	order, err := types.NewOrder(spec.ID, spec.Symbol, spec.Venue,
		spec.Direction, spec.Offset, spec.Price, spec.Volume, spec.SubmitAt)
	if err != nil {
		return err
	}
	order.Manual = spec.Manual

	_, err = engine.SubmitOrder(order)
	return err
}

func report(engine *matching.Engine, logger *zap.Logger, quoteCount, tradeCount int) {
	metrics := engine.Metrics()
	logger.Info("backtest finished",
		zap.Int("quotes", quoteCount),
		zap.Int("trades", tradeCount),
		zap.Int("orders_submitted", metrics.OrdersSubmitted),
		zap.Int("orders_filled", metrics.OrdersFilled),
		zap.Int("orders_partially_filled", metrics.OrdersPartiallyFilled),
		zap.Int("orders_cancelled", metrics.OrdersCancelled),
		zap.Int("orders_pending", len(engine.PendingOrders())),
		zap.String("total_turnover", metrics.TotalTurnover.String()),
		zap.String("total_commission", metrics.TotalCommission.String()),
		zap.String("fill_rate", metrics.FillRate.String()))

	if pct, ok := engine.SlippagePercentiles(); ok {
		logger.Info("slippage distribution",
			zap.String("min", metrics.SlippageMin.String()),
			zap.String("p25", pct.P25.String()),
			zap.String("p50", pct.P50.String()),
			zap.String("p75", pct.P75.String()),
			zap.String("p95", pct.P95.String()),
			zap.String("max", metrics.SlippageMax.String()),
			zap.String("mean", metrics.SlippageMean.String()))
	}
	if metrics.QueueWait != nil {
		logger.Info("queue wait estimates",
			zap.Float64("min_sec", metrics.QueueWait.Min),
			zap.Float64("max_sec", metrics.QueueWait.Max),
			zap.Float64("mean_sec", metrics.QueueWait.Mean))
	}

	fmt.Println()
	fmt.Println("Simulation fidelity disclosure:")
	fmt.Println(engine.Limitations())
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	return zapCfg.Build()
}

// buildMatchingConfig parses the env-supplied matching parameters into
// a validated engine configuration via the exact key-value path.
func buildMatchingConfig(mc config.MatchingConfig) (matching.MatchingConfig, error) {
	raw := map[string]interface{}{
		"mode":               mc.Mode,
		"commission_rate":    mc.CommissionRate,
		"min_commission":     mc.MinCommission,
		"slippage_model":     mc.SlippageModel,
		"slippage_base":      mc.SlippageBase,
		"allow_partial_fill": mc.AllowPartialFill,
	}
	if mc.QueueLevel != 0 {
		raw["queue_level"] = mc.QueueLevel
	}
	return matching.ConfigFromMap(raw)
}

// buildTradeStore constructs the configured trade sinks, composited so
// every enabled backend receives each trade.
func buildTradeStore(cfg *config.Config, logger *zap.Logger) (storage.TradeStore, error) {
	var stores []storage.TradeStore

	if cfg.Memory.Enabled {
		stores = append(stores, memory.NewTradeStore(cfg.Memory.MaxTrades))
		logger.Info("memory trade store enabled", zap.Int("max_trades", cfg.Memory.MaxTrades))
	}

	if cfg.File.Enabled {
		fileStore, err := file.NewTradeStore(cfg.File.Path)
		if err != nil {
			return nil, err
		}
		stores = append(stores, fileStore)
		logger.Info("trade file log enabled", zap.String("path", cfg.File.Path))
	}

	if cfg.Redis.Enabled {
		redisStore, err := redis.NewTradeStore(redis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxRetries:   cfg.Redis.MaxRetries,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			TLSEnabled:   cfg.Redis.TLSEnabled,
			MaxTrades:    cfg.Redis.MaxTrades,
		})
		if err != nil {
			return nil, err
		}
		stores = append(stores, redisStore)
		logger.Info("redis trade store enabled",
			zap.String("host", cfg.Redis.Host), zap.Int("port", cfg.Redis.Port))
	}

	if cfg.Database.Enabled {
		pgStore, err := postgres.NewTradeStore(postgres.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			Name:            cfg.Database.Name,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			MaxConns:        cfg.Database.MaxConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			SSLMode:         cfg.Database.SSLMode,
		})
		if err != nil {
			return nil, err
		}
		stores = append(stores, pgStore)
		logger.Info("postgres trade store enabled",
			zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Name))
	}

	if len(stores) == 1 {
		return stores[0], nil
	}
	return storage.NewCompositeTradeStore(stores...), nil
}

func loadOrders(path string) ([]orderSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var orders []orderSpec
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].SubmitAt.Before(orders[j].SubmitAt)
	})
	return orders, nil
}
