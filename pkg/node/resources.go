package node

import (
	"time"

	"github.com/wisbric/orbit/pkg/apierror"
	"github.com/wisbric/orbit/pkg/clusterstate"
)

// AllocateResources atomically checks and increments a node's allocated
// resources. Fails with VALIDATION_ERROR if the increment would push
// allocated above allocatable on any axis.
func (m *Manager) AllocateResources(nodeID string, delta clusterstate.Resources) apierror.Result[clusterstate.Node] {
	m.state.Lock()
	defer m.state.Unlock()

	n, ok := m.state.Nodes[nodeID]
	if !ok {
		return apierror.Fail[clusterstate.Node](apierror.New(apierror.CodeNodeNotFound, "node not found"))
	}
	if !AllocateLocked(n, delta) {
		return apierror.Fail[clusterstate.Node](apierror.New(apierror.CodeValidationError, "insufficient node resources"))
	}
	return apierror.Ok(*n)
}

// ReleaseResources atomically decrements a node's allocated resources,
// clamped at zero component-wise. Idempotent: releasing more than was
// allocated just clamps to zero rather than going negative or erroring.
func (m *Manager) ReleaseResources(nodeID string, delta clusterstate.Resources) apierror.Result[clusterstate.Node] {
	m.state.Lock()
	defer m.state.Unlock()

	n, ok := m.state.Nodes[nodeID]
	if !ok {
		return apierror.Fail[clusterstate.Node](apierror.New(apierror.CodeNodeNotFound, "node not found"))
	}
	ReleaseLocked(n, delta)
	return apierror.Ok(*n)
}

// AllocateLocked is the lock-free core of AllocateResources, used by the
// scheduler when it already holds the state lock for a placement attempt
// (sync.Mutex is not reentrant, so the scheduler must not call back
// through Manager's own locking methods). Returns false, leaving n
// unmodified, if delta would not fit.
func AllocateLocked(n *clusterstate.Node, delta clusterstate.Resources) bool {
	next := n.Allocated.Add(delta)
	if !n.Allocatable.Fits(next) {
		return false
	}
	n.Allocated = next
	n.UpdatedAt = time.Now()
	return true
}

// ReleaseLocked is the lock-free core of ReleaseResources.
func ReleaseLocked(n *clusterstate.Node, delta clusterstate.Resources) {
	n.Allocated = n.Allocated.Sub(delta)
	n.UpdatedAt = time.Now()
}

// AvailableUnsafe returns allocatable-minus-allocated for a node. Callers
// must hold the cluster state lock (used internally by the scheduler's
// filter/score pipeline, which locks once for the whole placement attempt).
func AvailableUnsafe(n *clusterstate.Node) clusterstate.Resources {
	return clusterstate.Resources{
		CPU:     n.Allocatable.CPU - n.Allocated.CPU,
		Memory:  n.Allocatable.Memory - n.Allocated.Memory,
		Pods:    n.Allocatable.Pods - n.Allocated.Pods,
		Storage: n.Allocatable.Storage - n.Allocated.Storage,
	}
}
