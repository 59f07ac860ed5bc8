package constants

// ReplenishStrategy selects how the pool recovers an existing UNUSED account
// before falling back to generating a fresh batch.
type ReplenishStrategy string

const (
	// StrategyClaim flips the oldest UNUSED row to PENDING in one locked
	// statement. Safe with several processes sharing a store.
	StrategyClaim ReplenishStrategy = "claim"

	// StrategyFind reads the oldest UNUSED row without locking it. Only safe
	// when a single process owns the store.
	StrategyFind ReplenishStrategy = "find"
)

func (s ReplenishStrategy) Valid() bool {
	return s == StrategyClaim || s == StrategyFind
}
