package clusterstate

// Resources is a resource quantity vector shared by Node allocatable/
// allocated accounting and Namespace quota/usage accounting. CPU is
// measured in millicores, Memory and Storage in bytes, Pods as a count.
type Resources struct {
	CPU     int64
	Memory  int64
	Pods    int64
	Storage int64
}

// Add returns a new Resources with each component summed.
func (r Resources) Add(o Resources) Resources {
	return Resources{
		CPU:     r.CPU + o.CPU,
		Memory:  r.Memory + o.Memory,
		Pods:    r.Pods + o.Pods,
		Storage: r.Storage + o.Storage,
	}
}

// Sub returns a new Resources with each component of o subtracted, clamped
// at zero component-wise (never goes negative).
func (r Resources) Sub(o Resources) Resources {
	return Resources{
		CPU:     clampSub(r.CPU, o.CPU),
		Memory:  clampSub(r.Memory, o.Memory),
		Pods:    clampSub(r.Pods, o.Pods),
		Storage: clampSub(r.Storage, o.Storage),
	}
}

// Fits reports whether required fits within the receiver, component-wise.
func (r Resources) Fits(required Resources) bool {
	return r.CPU >= required.CPU && r.Memory >= required.Memory &&
		r.Pods >= required.Pods && r.Storage >= required.Storage
}

func clampSub(a, b int64) int64 {
	v := a - b
	if v < 0 {
		return 0
	}
	return v
}
