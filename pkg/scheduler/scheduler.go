// Package scheduler implements PodScheduler: pod creation with quota
// pre-check, the filter+score placement pipeline, the pod lifecycle state
// machine, preemption, rollback, and resource release on terminal
// transitions, per spec.md §4.5 — the heart of the control plane core.
package scheduler

import (
	"log/slog"

	"github.com/wisbric/orbit/pkg/clusterstate"
	"github.com/wisbric/orbit/pkg/namespace"
	"github.com/wisbric/orbit/pkg/node"
	"github.com/wisbric/orbit/pkg/pack"
)

// Scheduler is the PodScheduler. It holds the shared cluster state
// directly (rather than calling back through the other managers' own
// locking methods, which would deadlock on the non-reentrant state mutex)
// and reuses their exported *Locked helpers for node/namespace accounting.
type Scheduler struct {
	state      *clusterstate.State
	nodes      *node.Manager
	namespaces *namespace.Manager
	packs      *pack.Registry
	cfg        Config
	logger     *slog.Logger
}

// New creates a Scheduler wired to the shared cluster state and the
// managers it depends on.
func New(state *clusterstate.State, nodes *node.Manager, namespaces *namespace.Manager, packs *pack.Registry, cfg Config, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{state: state, nodes: nodes, namespaces: namespaces, packs: packs, cfg: cfg, logger: logger}
}

// resolvePriority looks up a pod's numeric priority from its
// priorityClassName. An unknown or empty class name falls back to the
// configured default priority. Caller must hold the state lock.
func (s *Scheduler) resolvePriority(className string) int {
	if pc, ok := s.state.PriorityClasses[className]; ok {
		return pc.Value
	}
	return s.cfg.DefaultPriority
}

// resolvePreemptionPolicy looks up a pod's priority class preemption
// policy. Unknown classes default to allowing preemption. Caller must
// hold the state lock.
func (s *Scheduler) resolvePreemptionPolicy(className string) clusterstate.PreemptionPolicy {
	pc, ok := s.state.PriorityClasses[className]
	if !ok || pc.PreemptionPolicy == "" {
		return clusterstate.PreemptLowerPriority
	}
	return pc.PreemptionPolicy
}

// Get returns a Pod by ID.
func (s *Scheduler) Get(podID string) (clusterstate.Pod, bool) {
	s.state.Lock()
	defer s.state.Unlock()
	p, ok := s.state.Pods[podID]
	if !ok {
		return clusterstate.Pod{}, false
	}
	return *p, true
}

// List returns every Pod.
func (s *Scheduler) List() []clusterstate.Pod {
	s.state.Lock()
	defer s.state.Unlock()
	out := make([]clusterstate.Pod, 0, len(s.state.Pods))
	for _, p := range s.state.Pods {
		out = append(out, *p)
	}
	return out
}

func podsOnNode(state *clusterstate.State, nodeID string) []*clusterstate.Pod {
	var out []*clusterstate.Pod
	for _, p := range state.Pods {
		if p.NodeID == nodeID {
			out = append(out, p)
		}
	}
	return out
}
