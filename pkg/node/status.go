package node

import (
	"time"

	"github.com/wisbric/orbit/internal/telemetry"
	"github.com/wisbric/orbit/pkg/apierror"
	"github.com/wisbric/orbit/pkg/clusterstate"
)

func (m *Manager) setStatus(nodeID string, status clusterstate.NodeStatus, unschedulable bool) apierror.Result[clusterstate.Node] {
	m.state.Lock()
	defer m.state.Unlock()

	n, ok := m.state.Nodes[nodeID]
	if !ok {
		return apierror.Fail[clusterstate.Node](apierror.New(apierror.CodeNodeNotFound, "node not found"))
	}
	prevStatus := n.Status
	n.Status = status
	n.Unschedulable = unschedulable
	n.UpdatedAt = time.Now()
	if prevStatus != n.Status {
		telemetry.NodesByStatus.WithLabelValues(string(prevStatus)).Dec()
		telemetry.NodesByStatus.WithLabelValues(string(n.Status)).Inc()
	}
	return apierror.Ok(*n)
}

// Cordon marks a node draining: unschedulable, but existing pods keep running.
func (m *Manager) Cordon(nodeID string) apierror.Result[clusterstate.Node] {
	return m.setStatus(nodeID, clusterstate.NodeDraining, true)
}

// Maintenance marks a node as under maintenance: unschedulable.
func (m *Manager) Maintenance(nodeID string) apierror.Result[clusterstate.Node] {
	return m.setStatus(nodeID, clusterstate.NodeMaintenance, true)
}

// Uncordon returns a node to online/schedulable.
func (m *Manager) Uncordon(nodeID string) apierror.Result[clusterstate.Node] {
	return m.setStatus(nodeID, clusterstate.NodeOnline, false)
}

// Suspect marks a node suspect (soft precursor to unhealthy) without
// affecting schedulability.
func (m *Manager) Suspect(nodeID string) apierror.Result[clusterstate.Node] {
	m.state.Lock()
	defer m.state.Unlock()
	n, ok := m.state.Nodes[nodeID]
	if !ok {
		return apierror.Fail[clusterstate.Node](apierror.New(apierror.CodeNodeNotFound, "node not found"))
	}
	prevStatus := n.Status
	n.Status = clusterstate.NodeSuspect
	n.UpdatedAt = time.Now()
	if prevStatus != n.Status {
		telemetry.NodesByStatus.WithLabelValues(string(prevStatus)).Dec()
		telemetry.NodesByStatus.WithLabelValues(string(n.Status)).Inc()
	}
	return apierror.Ok(*n)
}

// Disconnect marks a node offline and clears its connection ID.
func (m *Manager) Disconnect(nodeID string) apierror.Result[clusterstate.Node] {
	m.state.Lock()
	defer m.state.Unlock()
	n, ok := m.state.Nodes[nodeID]
	if !ok {
		return apierror.Fail[clusterstate.Node](apierror.New(apierror.CodeNodeNotFound, "node not found"))
	}
	prevStatus := n.Status
	n.Status = clusterstate.NodeOffline
	n.ConnectionID = ""
	n.UpdatedAt = time.Now()
	if prevStatus != n.Status {
		telemetry.NodesByStatus.WithLabelValues(string(prevStatus)).Dec()
		telemetry.NodesByStatus.WithLabelValues(string(n.Status)).Inc()
	}
	return apierror.Ok(*n)
}
