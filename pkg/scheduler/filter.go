package scheduler

import (
	"sort"

	"github.com/wisbric/orbit/pkg/clusterstate"
	"github.com/wisbric/orbit/pkg/node"
)

// filterCandidates returns every Node passing all of spec.md §4.5.2's
// filter steps for pod against the resolved preferred runtime. Caller
// must hold the state lock. checkResources lets preemption planning reuse
// this with a relaxed resource check (see preempt.go). The result is
// sorted by Node ID so downstream scoring/preemption sees a stable order
// regardless of state.Nodes' randomized map iteration.
func filterCandidates(state *clusterstate.State, pod *clusterstate.Pod, preferred clusterstate.RuntimeType, checkResources bool) []*clusterstate.Node {
	var out []*clusterstate.Node
	for _, n := range state.Nodes {
		if passesNonResourceFilters(n, pod, preferred) {
			if !checkResources || fitsResources(n, pod) {
				out = append(out, n)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// passesNonResourceFilters checks every filter step except resource fit:
// schedulability, runtime compatibility, taints/tolerations, nodeSelector,
// and required node affinity.
func passesNonResourceFilters(n *clusterstate.Node, pod *clusterstate.Pod, preferred clusterstate.RuntimeType) bool {
	if !n.IsSchedulable() {
		return false
	}
	if !runtimeCompatible(n, preferred) {
		return false
	}
	if !tolerates(n.Taints, pod.Tolerations) {
		return false
	}
	if !matchesNodeSelector(pod.Scheduling.NodeSelector, n.Labels) {
		return false
	}
	if !matchesRequiredAffinity(pod.Scheduling.NodeAffinity.Required, n.Labels) {
		return false
	}
	return true
}

// fitsResources checks spec.md §4.5.2 step 4: available >= request
// component-wise, plus room for one more pod.
func fitsResources(n *clusterstate.Node, pod *clusterstate.Pod) bool {
	required := clusterstate.Resources{
		CPU:    pod.ResourceRequests.CPU,
		Memory: pod.ResourceRequests.Memory,
		Pods:   1,
	}
	return node.AvailableUnsafe(n).Fits(required)
}
