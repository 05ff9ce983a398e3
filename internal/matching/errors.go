package matching

import "errors"

var (
	// ErrNotConfigured is returned when a quote is fed to an engine
	// that has no matching configuration set.
	ErrNotConfigured = errors.New("matching: engine not configured")

	// ErrQueueLevelRequired is returned when level-2 matching is
	// configured without a queue fidelity level.
	ErrQueueLevelRequired = errors.New("matching: level-2 mode requires a queue level")

	// ErrQueueLevelForbidden is returned when a queue fidelity level is
	// supplied for level-1 matching.
	ErrQueueLevelForbidden = errors.New("matching: level-1 mode does not accept a queue level")

	// ErrDuplicateOrder is returned when an order id is submitted twice.
	ErrDuplicateOrder = errors.New("matching: duplicate order id")
)
