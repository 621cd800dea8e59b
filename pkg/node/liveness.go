package node

import (
	"context"
	"time"

	"github.com/wisbric/orbit/internal/telemetry"
	"github.com/wisbric/orbit/pkg/clusterstate"
)

// StartLivenessMonitor starts the periodic heartbeat-liveness sweep on
// m.cfg.HeartbeatCheckInterval. It is idempotent — calling it twice without
// an intervening Dispose is a no-op — and must be stopped with Dispose.
func (m *Manager) StartLivenessMonitor(ctx context.Context) {
	if !m.cfg.EnableHeartbeatMonitoring {
		return
	}
	m.timerMu.Lock()
	defer m.timerMu.Unlock()
	if m.started {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.started = true

	go func() {
		ticker := time.NewTicker(m.cfg.HeartbeatCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				m.sweep(time.Now())
			}
		}
	}()
}

// Dispose stops the liveness monitor. Idempotent; in-flight sweep callbacks
// do not mutate state after Dispose returns.
func (m *Manager) Dispose() {
	m.timerMu.Lock()
	defer m.timerMu.Unlock()
	if !m.started {
		return
	}
	m.cancel()
	m.started = false
}

// sweep transitions every node whose heartbeat is overdue to unhealthy and
// invokes onNodeUnhealthy exactly once per transition. A node exactly at
// the timeout boundary (now - lastHeartbeat == timeout) is NOT overdue —
// only now - lastHeartbeat > timeout triggers the transition.
func (m *Manager) sweep(now time.Time) {
	type transition struct {
		id, name string
	}
	var transitions []transition

	m.state.Lock()
	for _, n := range m.state.Nodes {
		if n.Status == clusterstate.NodeOffline || n.Status == clusterstate.NodeUnhealthy {
			continue
		}
		if now.Sub(n.LastHeartbeat) > m.cfg.HeartbeatTimeout {
			prevStatus := n.Status
			n.Status = clusterstate.NodeUnhealthy
			n.UpdatedAt = now
			telemetry.NodesByStatus.WithLabelValues(string(prevStatus)).Dec()
			telemetry.NodesByStatus.WithLabelValues(string(n.Status)).Inc()
			telemetry.NodeUnhealthyTransitionsTotal.Inc()
			transitions = append(transitions, transition{id: n.ID, name: n.Name})
		}
	}
	m.state.Unlock()

	for _, t := range transitions {
		m.invokeUnhealthyHook(t.id, t.name)
	}
}

// invokeUnhealthyHook calls the configured hook and logs, rather than
// propagates, any panic/error so one failing hook never stops the sweep
// from processing the remaining nodes (spec.md §4.2, §7).
func (m *Manager) invokeUnhealthyHook(nodeID, nodeName string) {
	if m.onNodeUnhealthy == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("onNodeUnhealthy hook panicked", "node_id", nodeID, "node_name", nodeName, "panic", r)
		}
	}()
	m.onNodeUnhealthy(nodeID, nodeName)
}
