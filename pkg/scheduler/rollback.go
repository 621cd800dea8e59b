package scheduler

import (
	"github.com/wisbric/orbit/pkg/apierror"
	"github.com/wisbric/orbit/pkg/clusterstate"
	"github.com/wisbric/orbit/pkg/pack"
)

// rollbackEligible is the set of statuses rollback may act on (spec.md §4.5.7).
var rollbackEligible = map[clusterstate.PodStatus]bool{
	clusterstate.PodScheduled: true,
	clusterstate.PodStarting:  true,
	clusterstate.PodRunning:   true,
}

// Rollback changes a pod's pack version without rescheduling it. A
// subsequent restart on the same node is assumed to pick up the new
// version (spec.md §4.5.7).
func (s *Scheduler) Rollback(podID, targetVersion string) apierror.Result[clusterstate.Pod] {
	s.state.Lock()
	defer s.state.Unlock()

	pod, ok := s.state.Pods[podID]
	if !ok {
		return apierror.Fail[clusterstate.Pod](apierror.New(apierror.CodePodNotFound, "pod not found"))
	}
	if !rollbackEligible[pod.Status] {
		return apierror.Fail[clusterstate.Pod](apierror.New(apierror.CodeInvalidStatusTransition, "pod must be scheduled, starting, or running to roll back"))
	}
	if targetVersion == pod.PackVersion {
		return apierror.Fail[clusterstate.Pod](apierror.New(apierror.CodeSameVersion, "target version equals the pod's current version"))
	}

	packName := packNameFor(s.state, pod)
	target, ok := pack.GetByNameVersionLocked(s.state, packName, targetVersion)
	if !ok {
		return apierror.Fail[clusterstate.Pod](apierror.New(apierror.CodeVersionNotFound, "target version not found"))
	}

	if pod.NodeID != "" {
		if n, ok := s.state.Nodes[pod.NodeID]; ok {
			if !pack.CompatibleWithRuntime(target.RuntimeTag, n.RuntimeType) {
				return apierror.Fail[clusterstate.Pod](apierror.New(apierror.CodeRuntimeMismatch, "target pack version is incompatible with the pod's current node runtime"))
			}
		}
	}

	preVersion := pod.PackVersion
	pod.PackID = target.ID
	pod.PackVersion = target.Version
	appendHistory(pod, clusterstate.PodHistoryEntry{
		Action:      clusterstate.HistoryRolledBack,
		PreStatus:   pod.Status,
		PostStatus:  pod.Status,
		PreVersion:  preVersion,
		PostVersion: target.Version,
		PreNodeID:   pod.NodeID,
		PostNodeID:  pod.NodeID,
	})

	return apierror.Ok(*pod)
}
