package repair

// Options configures RepairAll and the individual operators it runs
// (§6).
type Options struct {
	// NonManifoldStrategy is only consulted by a caller that runs
	// NonManifoldEdge explicitly; RepairAll's fixed order does not
	// include it (§4.6).
	NonManifoldStrategy NonManifoldStrategy

	// MaxHoleSize overrides DefaultMaxHoleSize when non-zero.
	MaxHoleSize int

	// DegenerateAreaThreshold overrides DegenerateAreaThreshold when
	// non-zero.
	DegenerateAreaThreshold float64

	// ValidateEachStep runs the topology validator after every
	// operation and downgrades that operation's Stats.Success on
	// failure, without aborting the pipeline (§4.6, §7).
	ValidateEachStep bool
}

// DefaultOptions returns the defaults from §6.
func DefaultOptions() Options {
	return Options{
		NonManifoldStrategy:     StrategyAuto,
		MaxHoleSize:             DefaultMaxHoleSize,
		DegenerateAreaThreshold: DegenerateAreaThreshold,
		ValidateEachStep:        false,
	}
}
