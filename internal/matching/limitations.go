package matching

import (
	"github.com/quantfold/matchsim/internal/types"
)

// Limitations returns a human-readable disclosure of the stated
// limitations of the configured simulation fidelity. Reports built on
// simulated fills must surface this text so users know how much to
// distrust them. The text is empty only for an unconfigured engine.
func (e *Engine) Limitations() string {
	if e.cfg == nil {
		return ""
	}

	if e.cfg.Mode == types.ModeLevel1 {
		return "Level-1 matching assumes infinite liquidity at the touch: every " +
			"crossing order fills in full at the best bid/ask, queue position is " +
			"ignored, and no partial fills occur. Fills at busy price levels are " +
			"optimistic versus a real exchange."
	}

	const l2 = "Level-2 matching models queue position for resting limit orders; " +
		"market and crossing orders still fill in full at the touch. "
	switch e.cfg.QueueLevel {
	case types.QueueLevelTime:
		return l2 + "Queue fidelity 1 (time-based) assumes an order reaches the " +
			"front of its queue after a fixed wait, using no liquidity data at all; " +
			"fills in thin markets are optimistic."
	case types.QueueLevelBook:
		return l2 + "Queue fidelity 2 (book-based) estimates queue position from the " +
			"visible depth ladder and requires traded volume before filling; it " +
			"cannot see hidden orders and degrades to the time-based estimate when " +
			"the feed carries no depth."
	default:
		return l2 + "Queue fidelity 3 (microstructure) inflates the visible queue by " +
			"a fixed hidden-liquidity factor and fills only after extended waits " +
			"against traded volume exceeding the order's size; fills are " +
			"conservative and may lag a real exchange."
	}
}
