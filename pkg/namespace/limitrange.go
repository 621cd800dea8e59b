package namespace

import "github.com/wisbric/orbit/pkg/clusterstate"

// ResourcePair is a CPU/Memory pair used for requests and limits.
type ResourcePair struct {
	CPU    int64
	Memory int64
}

// ApplyDefaults fills unset request/limit axes from the namespace's
// limit-range snapshot. Pure function of lr; nil inputs mean "unset".
func ApplyDefaults(lr *clusterstate.LimitRange, requests, limits *ResourcePair) (ResourcePair, ResourcePair) {
	var outReq, outLim ResourcePair
	if requests != nil {
		outReq = *requests
	}
	if limits != nil {
		outLim = *limits
	}
	if lr == nil {
		return outReq, outLim
	}
	if requests == nil || requests.CPU == 0 {
		if lr.CPU.DefaultRequest != nil {
			outReq.CPU = *lr.CPU.DefaultRequest
		}
	}
	if requests == nil || requests.Memory == 0 {
		if lr.Memory.DefaultRequest != nil {
			outReq.Memory = *lr.Memory.DefaultRequest
		}
	}
	if limits == nil || limits.CPU == 0 {
		if lr.CPU.Default != nil {
			outLim.CPU = *lr.CPU.Default
		}
	}
	if limits == nil || limits.Memory == 0 {
		if lr.Memory.Default != nil {
			outLim.Memory = *lr.Memory.Default
		}
	}
	return outReq, outLim
}

// ValidationFailure names the axis and bound a pod's resources violated.
type ValidationFailure struct {
	Axis   string
	Reason string
}

// ValidateResources checks requests/limits against the namespace's
// limit-range bounds: min <= requests, limits <= max, requests <= limits.
// Pure function of lr; a nil limit range always passes.
func ValidateResources(lr *clusterstate.LimitRange, requests, limits ResourcePair) []ValidationFailure {
	var failures []ValidationFailure
	if lr == nil {
		return failures
	}
	check := func(axis string, axisRange clusterstate.LimitRangeAxis, req, lim int64) {
		if axisRange.Min != nil && req < *axisRange.Min {
			failures = append(failures, ValidationFailure{Axis: axis, Reason: "requests below min"})
		}
		if axisRange.Max != nil && lim > *axisRange.Max {
			failures = append(failures, ValidationFailure{Axis: axis, Reason: "limits above max"})
		}
		if req > lim {
			failures = append(failures, ValidationFailure{Axis: axis, Reason: "requests exceed limits"})
		}
	}
	check("cpu", lr.CPU, requests.CPU, limits.CPU)
	check("memory", lr.Memory, requests.Memory, limits.Memory)
	return failures
}
