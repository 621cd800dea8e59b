package scheduler

import (
	"time"

	"github.com/wisbric/orbit/internal/telemetry"
	"github.com/wisbric/orbit/pkg/apierror"
	"github.com/wisbric/orbit/pkg/clusterstate"
	"github.com/wisbric/orbit/pkg/node"
	"github.com/wisbric/orbit/pkg/pack"
)

// Schedule attempts to place a pending pod onto a Node via the filter+score
// pipeline (spec.md §4.5.2), falling back to preemption (§4.5.3) when no
// candidate passes the filter step.
func (s *Scheduler) Schedule(podID string) apierror.Result[clusterstate.Pod] {
	s.state.Lock()
	defer s.state.Unlock()

	pod, ok := s.state.Pods[podID]
	if !ok {
		return apierror.Fail[clusterstate.Pod](apierror.New(apierror.CodePodNotFound, "pod not found"))
	}
	if pod.Status != clusterstate.PodPending {
		return apierror.Fail[clusterstate.Pod](apierror.New(apierror.CodeInvalidStatusTransition, "pod must be pending to schedule"))
	}

	p, ok := pack.GetByNameVersionLocked(s.state, packNameFor(s.state, pod), pod.PackVersion)
	if !ok {
		return apierror.Fail[clusterstate.Pod](apierror.New(apierror.CodePackNotFound, "pack not found"))
	}
	preferred := preferredRuntime(s.state, p.RuntimeTag)

	candidates := filterCandidates(s.state, pod, preferred, true)
	if len(candidates) == 0 {
		if preempted := s.tryPreempt(pod, preferred); preempted != nil {
			return s.placeOn(pod, preempted)
		}
		telemetry.SchedulingFailuresTotal.WithLabelValues("no_compatible_nodes").Inc()
		return apierror.Fail[clusterstate.Pod](apierror.New(apierror.CodeNoCompatibleNodes, "no compatible node available"))
	}

	best := pickBest(s.state, pod, candidates, s.cfg.Policy)
	return s.placeOn(pod, best)
}

// pickBest scores every candidate and returns the highest-scoring one,
// ties broken by stable natural order (first encountered wins).
func pickBest(state *clusterstate.State, pod *clusterstate.Pod, candidates []*clusterstate.Node, policy Policy) *clusterstate.Node {
	best := candidates[0]
	bestScore := scoreCandidate(state, pod, best, policy)
	for _, n := range candidates[1:] {
		score := scoreCandidate(state, pod, n, policy)
		if score > bestScore {
			best, bestScore = n, score
		}
	}
	return best
}

// placeOn commits a pod to a node: allocates node resources, transitions
// pending->scheduled, and appends a scheduled history entry.
func (s *Scheduler) placeOn(pod *clusterstate.Pod, n *clusterstate.Node) apierror.Result[clusterstate.Pod] {
	required := clusterstate.Resources{CPU: pod.ResourceRequests.CPU, Memory: pod.ResourceRequests.Memory, Pods: 1}
	if !node.AllocateLocked(n, required) {
		telemetry.SchedulingFailuresTotal.WithLabelValues("node_resources_changed").Inc()
		return apierror.Fail[clusterstate.Pod](apierror.New(apierror.CodeNoCompatibleNodes, "selected node no longer has sufficient resources"))
	}

	now := time.Now()
	pod.NodeID = n.ID
	pod.Status = clusterstate.PodScheduled
	pod.ScheduledAt = &now
	pod.UpdatedAt = now
	appendHistory(pod, clusterstate.PodHistoryEntry{
		Action:     clusterstate.HistoryScheduled,
		PreStatus:  clusterstate.PodPending,
		PostStatus: clusterstate.PodScheduled,
		PostNodeID: n.ID,
	})

	telemetry.PodsScheduledTotal.WithLabelValues(string(s.cfg.Policy)).Inc()
	return apierror.Ok(*pod)
}

// packNameFor resolves a pod's pack name from its packId, used to look up
// other versions of the same pack during scheduling and rollback. Caller
// must hold the state lock.
func packNameFor(state *clusterstate.State, pod *clusterstate.Pod) string {
	if p, ok := state.Packs[pod.PackID]; ok {
		return p.Name
	}
	return ""
}
