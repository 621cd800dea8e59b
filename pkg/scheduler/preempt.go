package scheduler

import (
	"fmt"
	"sort"

	"github.com/wisbric/orbit/internal/telemetry"
	"github.com/wisbric/orbit/pkg/clusterstate"
	"github.com/wisbric/orbit/pkg/node"
)

// tryPreempt implements spec.md §4.5.3. Triggered only by Schedule when
// the ordinary filter step produced zero candidates. Returns the node to
// place pod on after evicting victims, or nil if no node can be cleared.
// Caller must hold the state lock.
func (s *Scheduler) tryPreempt(pod *clusterstate.Pod, preferred clusterstate.RuntimeType) *clusterstate.Node {
	if !s.cfg.EnablePreemption {
		return nil
	}
	if s.resolvePreemptionPolicy(pod.PriorityClassName) == clusterstate.PreemptNever {
		return nil
	}

	// Non-resource filters only: candidates need not already fit, since
	// preemption may free enough room.
	candidates := filterCandidates(s.state, pod, preferred, false)

	required := clusterstate.Resources{CPU: pod.ResourceRequests.CPU, Memory: pod.ResourceRequests.Memory, Pods: 1}

	for _, n := range candidates {
		victims := selectVictims(s.state, pod, n, required)
		if victims == nil {
			continue
		}
		for _, v := range victims {
			s.evictLocked(v, fmt.Sprintf("Preempted by pod %s with higher priority", pod.ID))
		}
		telemetry.PodsPreemptedTotal.Add(float64(len(victims)))
		return n
	}
	return nil
}

// selectVictims greedily picks pods on n, ascending by priority, whose
// priority is lower than pod.Priority, until the node's available
// resources plus victims' freed resources would satisfy required. Returns
// nil if no combination of victims suffices.
func selectVictims(state *clusterstate.State, pod *clusterstate.Pod, n *clusterstate.Node, required clusterstate.Resources) []*clusterstate.Pod {
	candidates := podsOnNode(state, n.ID)
	var evictable []*clusterstate.Pod
	for _, p := range candidates {
		if p.Status.IsTerminal() {
			continue
		}
		if p.Priority < pod.Priority {
			evictable = append(evictable, p)
		}
	}
	sort.Slice(evictable, func(i, j int) bool { return evictable[i].Priority < evictable[j].Priority })

	freed := clusterstate.Resources{}
	var victims []*clusterstate.Pod
	for _, p := range evictable {
		avail := node.AvailableUnsafe(n).Add(freed)
		if avail.Fits(required) {
			break
		}
		freed = freed.Add(clusterstate.Resources{CPU: p.ResourceRequests.CPU, Memory: p.ResourceRequests.Memory, Pods: 1})
		victims = append(victims, p)
	}

	avail := node.AvailableUnsafe(n).Add(freed)
	if !avail.Fits(required) {
		return nil
	}
	return victims
}
