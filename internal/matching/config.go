package matching

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/quantfold/matchsim/internal/types"
)

// MatchingConfig is the immutable configuration of one engine instance.
// It is validated once, supplied whole, and never mutated field-by-field
// mid-run; replacing it wholesale between runs is done via
// Engine.Configure.
type MatchingConfig struct {
	Mode       types.MatchMode  `json:"mode"`
	QueueLevel types.QueueLevel `json:"queue_level,omitempty"`

	CommissionRate decimal.Decimal `json:"commission_rate"`
	MinCommission  decimal.Decimal `json:"min_commission"`

	SlippageModel types.SlippageModel `json:"slippage_model"`
	SlippageBase  decimal.Decimal     `json:"slippage_base"`

	AllowPartialFill bool `json:"allow_partial_fill"`
}

// Validate checks the configuration invariants, including the
// mode / queue-level presence contract.
func (c MatchingConfig) Validate() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("matching config: invalid mode %q", c.Mode)
	}
	switch c.Mode {
	case types.ModeLevel2:
		if c.QueueLevel == types.QueueLevelNone {
			return ErrQueueLevelRequired
		}
		if !c.QueueLevel.Valid() {
			return fmt.Errorf("matching config: invalid queue level %d", c.QueueLevel)
		}
	case types.ModeLevel1:
		if c.QueueLevel != types.QueueLevelNone {
			return ErrQueueLevelForbidden
		}
	}
	if c.CommissionRate.IsNegative() {
		return fmt.Errorf("matching config: negative commission rate %s", c.CommissionRate)
	}
	if c.MinCommission.IsNegative() {
		return fmt.Errorf("matching config: negative minimum commission %s", c.MinCommission)
	}
	if !c.SlippageModel.Valid() {
		return fmt.Errorf("matching config: invalid slippage model %q", c.SlippageModel)
	}
	if c.SlippageBase.IsNegative() {
		return fmt.Errorf("matching config: negative slippage base %s", c.SlippageBase)
	}
	return nil
}

// ToMap renders the configuration as a plain JSON-compatible map.
// Decimal fields are emitted as strings so a round-trip stays exact.
func (c MatchingConfig) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"mode":               string(c.Mode),
		"commission_rate":    c.CommissionRate.String(),
		"min_commission":     c.MinCommission.String(),
		"slippage_model":     string(c.SlippageModel),
		"slippage_base":      c.SlippageBase.String(),
		"allow_partial_fill": c.AllowPartialFill,
	}
	if c.Mode == types.ModeLevel2 {
		m["queue_level"] = int(c.QueueLevel)
	}
	return m
}

// ConfigFromMap builds a validated MatchingConfig from a plain
// key-value map, e.g. one decoded from JSON with json.Number enabled.
// Monetary fields must arrive as strings, integers, or json.Number;
// binary floats are rejected because they cannot be represented exactly.
func ConfigFromMap(m map[string]interface{}) (MatchingConfig, error) {
	var cfg MatchingConfig

	mode, err := stringField(m, "mode")
	if err != nil {
		return cfg, err
	}
	cfg.Mode = types.MatchMode(mode)

	if raw, ok := m["queue_level"]; ok {
		lvl, err := intValue("queue_level", raw)
		if err != nil {
			return cfg, err
		}
		cfg.QueueLevel = types.QueueLevel(lvl)
	}

	if cfg.CommissionRate, err = decimalField(m, "commission_rate"); err != nil {
		return cfg, err
	}
	if cfg.MinCommission, err = decimalField(m, "min_commission"); err != nil {
		return cfg, err
	}

	model, err := stringField(m, "slippage_model")
	if err != nil {
		return cfg, err
	}
	cfg.SlippageModel = types.SlippageModel(model)

	if cfg.SlippageBase, err = decimalField(m, "slippage_base"); err != nil {
		return cfg, err
	}

	if raw, ok := m["allow_partial_fill"]; ok {
		b, ok := raw.(bool)
		if !ok {
			return cfg, fmt.Errorf("matching config: allow_partial_fill must be a bool, got %T", raw)
		}
		cfg.AllowPartialFill = b
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func stringField(m map[string]interface{}, key string) (string, error) {
	raw, ok := m[key]
	if !ok {
		return "", fmt.Errorf("matching config: missing %q", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("matching config: %q must be a string, got %T", key, raw)
	}
	return s, nil
}

func decimalField(m map[string]interface{}, key string) (decimal.Decimal, error) {
	raw, ok := m[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("matching config: missing %q", key)
	}
	switch v := raw.(type) {
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("matching config: %q: %w", key, err)
		}
		return d, nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("matching config: %q: %w", key, err)
		}
		return d, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	default:
		// float64 lands here: a binary float has already lost exactness.
		return decimal.Zero, fmt.Errorf("matching config: %q must be an exact number (string or json.Number), got %T", key, raw)
	}
}

func intValue(key string, raw interface{}) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("matching config: %q: %w", key, err)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("matching config: %q must be an integer, got %T", key, raw)
	}
}
