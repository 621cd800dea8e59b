package scheduler

import (
	"time"

	"github.com/wisbric/orbit/pkg/apierror"
	"github.com/wisbric/orbit/pkg/clusterstate"
	"github.com/wisbric/orbit/pkg/namespace"
	"github.com/wisbric/orbit/pkg/node"
)

// validNextStatus is the pod lifecycle state machine (spec.md §4.5.4).
var validNextStatus = map[clusterstate.PodStatus][]clusterstate.PodStatus{
	clusterstate.PodPending:   {clusterstate.PodScheduled},
	clusterstate.PodScheduled: {clusterstate.PodStarting},
	clusterstate.PodStarting:  {clusterstate.PodRunning},
	clusterstate.PodRunning:   {clusterstate.PodStopping},
	clusterstate.PodStopping:  {clusterstate.PodStopped},
}

func canTransition(from, to clusterstate.PodStatus) bool {
	for _, allowed := range validNextStatus[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Start transitions a scheduled pod to starting.
func (s *Scheduler) Start(podID string) apierror.Result[clusterstate.Pod] {
	return s.transition(podID, clusterstate.PodStarting, "")
}

// SetRunning transitions a starting pod to running and sets startedAt.
func (s *Scheduler) SetRunning(podID string) apierror.Result[clusterstate.Pod] {
	return s.transition(podID, clusterstate.PodRunning, "")
}

// Stop transitions a running (or starting/scheduled) pod to stopping.
func (s *Scheduler) Stop(podID string) apierror.Result[clusterstate.Pod] {
	return s.transition(podID, clusterstate.PodStopping, "")
}

// SetStopped transitions a stopping pod to the terminal stopped state and
// releases its resources.
func (s *Scheduler) SetStopped(podID string) apierror.Result[clusterstate.Pod] {
	return s.transition(podID, clusterstate.PodStopped, "")
}

// Fail transitions any non-terminal pod to the terminal failed state and
// releases its resources.
func (s *Scheduler) Fail(podID, reason string) apierror.Result[clusterstate.Pod] {
	return s.transitionFromAny(podID, clusterstate.PodFailed, reason)
}

// Evict transitions any non-terminal pod to the terminal evicted state and
// releases its resources.
func (s *Scheduler) Evict(podID, reason string) apierror.Result[clusterstate.Pod] {
	return s.transitionFromAny(podID, clusterstate.PodEvicted, reason)
}

// transition enforces the ordinary (non-fail/evict) forward-only state
// machine edges.
func (s *Scheduler) transition(podID string, to clusterstate.PodStatus, reason string) apierror.Result[clusterstate.Pod] {
	s.state.Lock()
	defer s.state.Unlock()

	pod, ok := s.state.Pods[podID]
	if !ok {
		return apierror.Fail[clusterstate.Pod](apierror.New(apierror.CodePodNotFound, "pod not found"))
	}
	if !canTransition(pod.Status, to) {
		return apierror.Fail[clusterstate.Pod](apierror.New(apierror.CodeInvalidStatusTransition, "invalid pod status transition"))
	}
	applyTransitionLocked(s.state, pod, to, reason)
	return apierror.Ok(*pod)
}

// transitionFromAny enforces the fail/evict edges, which are valid from
// any non-terminal status.
func (s *Scheduler) transitionFromAny(podID string, to clusterstate.PodStatus, reason string) apierror.Result[clusterstate.Pod] {
	s.state.Lock()
	defer s.state.Unlock()

	pod, ok := s.state.Pods[podID]
	if !ok {
		return apierror.Fail[clusterstate.Pod](apierror.New(apierror.CodePodNotFound, "pod not found"))
	}
	if pod.Status.IsTerminal() {
		return apierror.Fail[clusterstate.Pod](apierror.New(apierror.CodeInvalidStatusTransition, "pod is already in a terminal state"))
	}
	applyTransitionLocked(s.state, pod, to, reason)
	return apierror.Ok(*pod)
}

// evictLocked is the lock-free core used by preemption and failPodsOnNode,
// which already hold the state lock for the duration of a larger
// operation (a scheduling attempt or a node-unhealthy sweep).
func (s *Scheduler) evictLocked(pod *clusterstate.Pod, reason string) {
	applyTransitionLocked(s.state, pod, clusterstate.PodEvicted, reason)
}

func (s *Scheduler) failLocked(pod *clusterstate.Pod, reason string) {
	applyTransitionLocked(s.state, pod, clusterstate.PodFailed, reason)
}

// applyTransitionLocked mutates pod's status, stamps the relevant
// timestamp, appends a history entry, and releases resources exactly once
// on entering a terminal state. Caller must hold the state lock.
func applyTransitionLocked(state *clusterstate.State, pod *clusterstate.Pod, to clusterstate.PodStatus, reason string) {
	from := pod.Status
	now := time.Now()

	pod.Status = to
	pod.StatusMessage = reason
	pod.UpdatedAt = now

	switch to {
	case clusterstate.PodRunning:
		pod.StartedAt = &now
	case clusterstate.PodStopped, clusterstate.PodFailed, clusterstate.PodEvicted:
		pod.StoppedAt = &now
	}

	appendHistory(pod, clusterstate.PodHistoryEntry{
		Action:     actionForStatus(to),
		PreStatus:  from,
		PostStatus: to,
		PreNodeID:  pod.NodeID,
		PostNodeID: pod.NodeID,
		Reason:     reason,
	})

	if to.IsTerminal() {
		releaseLocked(state, pod)
	}
}

// releaseLocked releases a terminal pod's reserved node and namespace
// resources exactly once (spec.md §4.5.5). Caller must hold the state lock.
func releaseLocked(state *clusterstate.State, pod *clusterstate.Pod) {
	if pod.ResourcesReleased {
		return
	}
	required := clusterstate.Resources{CPU: pod.ResourceRequests.CPU, Memory: pod.ResourceRequests.Memory, Pods: 1}

	if pod.NodeID != "" {
		if n, ok := state.Nodes[pod.NodeID]; ok {
			node.ReleaseLocked(n, required)
		}
	}
	if ns, ok := state.Namespaces[pod.Namespace]; ok {
		namespace.ReleaseLocked(ns, required)
	}
	pod.ResourcesReleased = true
}
