package atom

// DefaultMaxHandoffs is the default cap on hand-off cycles per run.
const DefaultMaxHandoffs = 10

// Config holds configuration for an Engine.
type Config struct {
	// MaxHandoffs is the maximum number of interruption/hand-off cycles
	// before the run is terminated with ErrHandoffBudget. Not validated:
	// zero or negative caps fail the run on its first interruption.
	MaxHandoffs int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{MaxHandoffs: DefaultMaxHandoffs}
}
