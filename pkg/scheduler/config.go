package scheduler

// Policy selects the scoring strategy used to rank candidate Nodes.
type Policy string

const (
	PolicySpread      Policy = "spread"
	PolicyBinpack     Policy = "binpack"
	PolicyRandom      Policy = "random"
	PolicyLeastLoaded Policy = "least_loaded"
)

// Config holds the PodScheduler's configurable keys (spec.md §6).
type Config struct {
	MaxRetries       int
	DefaultPriority  int
	EnablePreemption bool
	Policy           Policy
}

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config {
	return Config{
		MaxRetries:       3,
		DefaultPriority:  0,
		EnablePreemption: false,
		Policy:           PolicySpread,
	}
}
