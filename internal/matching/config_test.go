package matching

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/matchsim/internal/types"
)

func TestConfigValidate(t *testing.T) {
	t.Run("valid level-1", func(t *testing.T) {
		assert.NoError(t, level1Config().Validate())
	})

	t.Run("valid level-2", func(t *testing.T) {
		assert.NoError(t, level2Config(types.QueueLevelBook).Validate())
	})

	t.Run("level-2 without queue level", func(t *testing.T) {
		cfg := level1Config()
		cfg.Mode = types.ModeLevel2
		assert.ErrorIs(t, cfg.Validate(), ErrQueueLevelRequired)
	})

	t.Run("level-1 with queue level", func(t *testing.T) {
		cfg := level1Config()
		cfg.QueueLevel = types.QueueLevelTime
		assert.ErrorIs(t, cfg.Validate(), ErrQueueLevelForbidden)
	})

	t.Run("unknown mode", func(t *testing.T) {
		cfg := level1Config()
		cfg.Mode = "level9"
		assert.Error(t, cfg.Validate())
	})

	t.Run("out-of-range queue level", func(t *testing.T) {
		cfg := level2Config(types.QueueLevel(7))
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative commission rate", func(t *testing.T) {
		cfg := level1Config()
		cfg.CommissionRate = d("-0.001")
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative minimum commission", func(t *testing.T) {
		cfg := level1Config()
		cfg.MinCommission = d("-1")
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown slippage model", func(t *testing.T) {
		cfg := level1Config()
		cfg.SlippageModel = "chaotic"
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative slippage base", func(t *testing.T) {
		cfg := level1Config()
		cfg.SlippageBase = d("-0.1")
		assert.Error(t, cfg.Validate())
	})
}

func TestConfigMapRoundTrip(t *testing.T) {
	cfg := level2Config(types.QueueLevelMicro)
	cfg.CommissionRate = d("0.00025")
	cfg.MinCommission = d("1.5")
	cfg.SlippageModel = types.SlippageVolumeScaled
	cfg.SlippageBase = d("0.0001")

	restored, err := ConfigFromMap(cfg.ToMap())
	require.NoError(t, err)

	assert.Equal(t, cfg.Mode, restored.Mode)
	assert.Equal(t, cfg.QueueLevel, restored.QueueLevel)
	assert.True(t, cfg.CommissionRate.Equal(restored.CommissionRate))
	assert.True(t, cfg.MinCommission.Equal(restored.MinCommission))
	assert.Equal(t, cfg.SlippageModel, restored.SlippageModel)
	assert.True(t, cfg.SlippageBase.Equal(restored.SlippageBase))
	assert.Equal(t, cfg.AllowPartialFill, restored.AllowPartialFill)
}

func TestConfigMapRoundTripThroughJSON(t *testing.T) {
	cfg := level1Config()
	cfg.CommissionRate = d("0.001")

	data, err := json.Marshal(cfg.ToMap())
	require.NoError(t, err)

	// json.Number keeps numeric text exact instead of forcing float64.
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.UseNumber()
	var m map[string]interface{}
	require.NoError(t, decoder.Decode(&m))

	restored, err := ConfigFromMap(m)
	require.NoError(t, err)
	assert.True(t, cfg.CommissionRate.Equal(restored.CommissionRate))
}

func TestConfigFromMapRejectsBinaryFloats(t *testing.T) {
	m := level1Config().ToMap()
	m["commission_rate"] = 0.001

	_, err := ConfigFromMap(m)
	assert.ErrorContains(t, err, "exact number")
}

func TestConfigFromMapRejectsGarbage(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing mode", func(m map[string]interface{}) { delete(m, "mode") }},
		{"missing commission rate", func(m map[string]interface{}) { delete(m, "commission_rate") }},
		{"non-numeric rate", func(m map[string]interface{}) { m["commission_rate"] = "lots" }},
		{"non-integer queue level", func(m map[string]interface{}) { m["queue_level"] = "two" }},
		{"non-bool partial flag", func(m map[string]interface{}) { m["allow_partial_fill"] = "yes" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := level2Config(types.QueueLevelTime).ToMap()
			tt.mutate(m)
			_, err := ConfigFromMap(m)
			assert.Error(t, err)
		})
	}
}

func TestConfigToMapOmitsQueueLevelForLevel1(t *testing.T) {
	m := level1Config().ToMap()
	_, present := m["queue_level"]
	assert.False(t, present)

	m = level2Config(types.QueueLevelBook).ToMap()
	assert.Equal(t, int(types.QueueLevelBook), m["queue_level"])
}
