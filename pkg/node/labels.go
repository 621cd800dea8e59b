package node

import (
	"time"

	"github.com/wisbric/orbit/pkg/apierror"
	"github.com/wisbric/orbit/pkg/clusterstate"
)

// AddLabel sets a label, idempotent on key (a repeated call with the same
// key overwrites the value rather than erroring).
func (m *Manager) AddLabel(nodeID, key, value string) apierror.Result[clusterstate.Node] {
	m.state.Lock()
	defer m.state.Unlock()
	n, ok := m.state.Nodes[nodeID]
	if !ok {
		return apierror.Fail[clusterstate.Node](apierror.New(apierror.CodeNodeNotFound, "node not found"))
	}
	if n.Labels == nil {
		n.Labels = map[string]string{}
	}
	n.Labels[key] = value
	n.UpdatedAt = time.Now()
	return apierror.Ok(*n)
}

// RemoveLabel deletes a label by key, a no-op if absent.
func (m *Manager) RemoveLabel(nodeID, key string) apierror.Result[clusterstate.Node] {
	m.state.Lock()
	defer m.state.Unlock()
	n, ok := m.state.Nodes[nodeID]
	if !ok {
		return apierror.Fail[clusterstate.Node](apierror.New(apierror.CodeNodeNotFound, "node not found"))
	}
	delete(n.Labels, key)
	n.UpdatedAt = time.Now()
	return apierror.Ok(*n)
}

// AddTaint adds a taint, idempotent on (key, value, effect): adding an
// identical taint twice leaves the taint list unchanged.
func (m *Manager) AddTaint(nodeID string, t clusterstate.Taint) apierror.Result[clusterstate.Node] {
	m.state.Lock()
	defer m.state.Unlock()
	n, ok := m.state.Nodes[nodeID]
	if !ok {
		return apierror.Fail[clusterstate.Node](apierror.New(apierror.CodeNodeNotFound, "node not found"))
	}
	for _, existing := range n.Taints {
		if existing == t {
			return apierror.Ok(*n)
		}
	}
	n.Taints = append(n.Taints, t)
	n.UpdatedAt = time.Now()
	return apierror.Ok(*n)
}

// RemoveTaint removes a taint matching (key, value, effect), a no-op if absent.
func (m *Manager) RemoveTaint(nodeID string, t clusterstate.Taint) apierror.Result[clusterstate.Node] {
	m.state.Lock()
	defer m.state.Unlock()
	n, ok := m.state.Nodes[nodeID]
	if !ok {
		return apierror.Fail[clusterstate.Node](apierror.New(apierror.CodeNodeNotFound, "node not found"))
	}
	out := n.Taints[:0]
	for _, existing := range n.Taints {
		if existing != t {
			out = append(out, existing)
		}
	}
	n.Taints = out
	n.UpdatedAt = time.Now()
	return apierror.Ok(*n)
}
