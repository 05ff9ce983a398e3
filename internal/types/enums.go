package types

// Direction is the side of an order: long (buy) or short (sell).
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionLong || d == DirectionShort
}

// Offset distinguishes position-opening from position-closing orders.
type Offset string

const (
	OffsetOpen  Offset = "open"
	OffsetClose Offset = "close"
)

// Valid reports whether o is a known offset.
func (o Offset) Valid() bool {
	return o == OffsetOpen || o == OffsetClose
}

// OrderStatus is the lifecycle state of an order.
//
// StatusRejected is reachable on the type but never produced by the
// matching engine itself; it is reserved for upstream adapters whose
// orders never reach the engine.
type OrderStatus string

const (
	StatusPending         OrderStatus = "pending"
	StatusPartiallyFilled OrderStatus = "partially_filled"
	StatusFilled          OrderStatus = "filled"
	StatusCancelled       OrderStatus = "cancelled"
	StatusRejected        OrderStatus = "rejected"
)

// Active reports whether an order in this status is still eligible
// for matching.
func (s OrderStatus) Active() bool {
	return s == StatusPending || s == StatusPartiallyFilled
}

// MatchMode selects the fill-simulation fidelity.
type MatchMode string

const (
	// ModeLevel1 fills at the touch price assuming infinite liquidity.
	ModeLevel1 MatchMode = "level1"
	// ModeLevel2 models queue position among resting orders.
	ModeLevel2 MatchMode = "level2"
)

// Valid reports whether m is a known matching mode.
func (m MatchMode) Valid() bool {
	return m == ModeLevel1 || m == ModeLevel2
}

// QueueLevel is the level-2 queue-position estimation fidelity.
// QueueLevelNone is the zero value and only valid under level-1 matching.
type QueueLevel int

const (
	QueueLevelNone QueueLevel = 0
	// QueueLevelTime estimates queue wait purely from elapsed time.
	QueueLevelTime QueueLevel = 1
	// QueueLevelBook estimates queue position from the depth ladder.
	QueueLevelBook QueueLevel = 2
	// QueueLevelMicro inflates the book estimate for hidden liquidity.
	QueueLevelMicro QueueLevel = 3
)

// Valid reports whether q is one of the three estimation levels.
func (q QueueLevel) Valid() bool {
	return q >= QueueLevelTime && q <= QueueLevelMicro
}

// SlippageModel selects the slippage formula.
type SlippageModel string

const (
	SlippageFixed            SlippageModel = "fixed"
	SlippageVolumeScaled     SlippageModel = "volume_scaled"
	SlippageVolatilityScaled SlippageModel = "volatility_scaled"
)

// Valid reports whether m is a known slippage model.
func (m SlippageModel) Valid() bool {
	switch m {
	case SlippageFixed, SlippageVolumeScaled, SlippageVolatilityScaled:
		return true
	}
	return false
}
