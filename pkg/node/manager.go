// Package node implements NodeManager: registration, heartbeat processing,
// liveness monitoring, labels/taints, resource accounting, and
// cordon/drain/maintenance, per spec.md §4.2.
package node

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/wisbric/orbit/internal/telemetry"
	"github.com/wisbric/orbit/pkg/apierror"
	"github.com/wisbric/orbit/pkg/clusterstate"
)

// UnhealthyHook is invoked exactly once per online->unhealthy transition
// detected by the liveness sweep. Hook failures are logged but never abort
// the sweep (spec.md §4.2).
type UnhealthyHook func(nodeID, nodeName string)

// Config holds the NodeManager's configurable keys (spec.md §6).
type Config struct {
	HeartbeatTimeout          time.Duration
	HeartbeatCheckInterval    time.Duration
	EnableHeartbeatMonitoring bool
}

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config {
	return Config{
		HeartbeatTimeout:          30 * time.Second,
		HeartbeatCheckInterval:    10 * time.Second,
		EnableHeartbeatMonitoring: true,
	}
}

// Manager is the NodeManager.
type Manager struct {
	state           *clusterstate.State
	cfg             Config
	logger          *slog.Logger
	onNodeUnhealthy UnhealthyHook

	timerMu sync.Mutex
	cancel  context.CancelFunc
	started bool
}

// New creates a Manager over the given shared cluster state.
func New(state *clusterstate.State, cfg Config, logger *slog.Logger, onNodeUnhealthy UnhealthyHook) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{state: state, cfg: cfg, logger: logger, onNodeUnhealthy: onNodeUnhealthy}
}

// RegisterInput describes a new Node registration.
type RegisterInput struct {
	Name         string
	RuntimeType  clusterstate.RuntimeType
	Allocatable  clusterstate.Resources
	Labels       map[string]string
	Annotations  map[string]string
	Taints       []clusterstate.Taint
	Capabilities map[string]string
	ConnectionID string
	RegisteredBy string
}

// Register enrolls a new Node. Fails if name is already taken or
// runtimeType is not recognized.
func (m *Manager) Register(in RegisterInput) apierror.Result[clusterstate.Node] {
	if in.Name == "" {
		return apierror.Fail[clusterstate.Node](apierror.New(apierror.CodeValidationError, "name is required"))
	}
	if in.RuntimeType != clusterstate.RuntimeNode && in.RuntimeType != clusterstate.RuntimeBrowser {
		return apierror.Fail[clusterstate.Node](apierror.New(apierror.CodeValidationError, "runtimeType must be node or browser"))
	}

	m.state.Lock()
	defer m.state.Unlock()

	if _, exists := m.state.NodeIDByName(in.Name); exists {
		return apierror.Fail[clusterstate.Node](apierror.New(apierror.CodeNodeExists, fmt.Sprintf("node %q already registered", in.Name)))
	}

	now := time.Now()
	n := &clusterstate.Node{
		ID:            uuid.NewString(),
		Name:          in.Name,
		RuntimeType:   in.RuntimeType,
		Status:        clusterstate.NodeOnline,
		LastHeartbeat: now,
		ConnectionID:  in.ConnectionID,
		Capabilities:  in.Capabilities,
		Allocatable:   in.Allocatable,
		Allocated:     clusterstate.Resources{},
		Labels:        copyStringMap(in.Labels),
		Annotations:   copyStringMap(in.Annotations),
		Taints:        append([]clusterstate.Taint(nil), in.Taints...),
		Unschedulable: false,
		RegisteredBy:  in.RegisteredBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.state.Nodes[n.ID] = n
	m.state.IndexNodeName(n.Name, n.ID)
	telemetry.NodesByStatus.WithLabelValues(string(n.Status)).Inc()

	return apierror.Ok(*n)
}

// Reconnect resets a previously registered node to online and refreshes its
// connection ID and heartbeat.
func (m *Manager) Reconnect(nodeID, connectionID string) apierror.Result[clusterstate.Node] {
	m.state.Lock()
	defer m.state.Unlock()

	n, ok := m.state.Nodes[nodeID]
	if !ok {
		return apierror.Fail[clusterstate.Node](apierror.New(apierror.CodeNodeNotFound, "node not found"))
	}
	prevStatus := n.Status
	n.Status = clusterstate.NodeOnline
	n.ConnectionID = connectionID
	n.LastHeartbeat = time.Now()
	n.UpdatedAt = n.LastHeartbeat
	if prevStatus != n.Status {
		telemetry.NodesByStatus.WithLabelValues(string(prevStatus)).Dec()
		telemetry.NodesByStatus.WithLabelValues(string(n.Status)).Inc()
	}
	return apierror.Ok(*n)
}

// Deregister removes a node permanently. Only the registering caller may deregister.
func (m *Manager) Deregister(requesterID, nodeID string) apierror.Result[struct{}] {
	m.state.Lock()
	defer m.state.Unlock()

	n, ok := m.state.Nodes[nodeID]
	if !ok {
		return apierror.Fail[struct{}](apierror.New(apierror.CodeNodeNotFound, "node not found"))
	}
	if n.RegisteredBy != requesterID {
		return apierror.Fail[struct{}](apierror.New(apierror.CodeValidationError, "only the registering caller may deregister a node"))
	}
	delete(m.state.Nodes, nodeID)
	m.state.UnindexNodeName(n.Name)
	telemetry.NodesByStatus.WithLabelValues(string(n.Status)).Dec()
	return apierror.Ok(struct{}{})
}

// HeartbeatMessage is the payload consumed from a node-agent heartbeat
// (spec.md §6). Status and Allocated are partial overrides.
type HeartbeatMessage struct {
	NodeID    string
	Timestamp time.Time
	Status    *clusterstate.NodeStatus
	Allocated *clusterstate.Resources
}

// Heartbeat applies a heartbeat message, refreshing LastHeartbeat and
// optionally overriding Status/Allocated.
func (m *Manager) Heartbeat(msg HeartbeatMessage) apierror.Result[clusterstate.Node] {
	m.state.Lock()
	defer m.state.Unlock()

	n, ok := m.state.Nodes[msg.NodeID]
	if !ok {
		return apierror.Fail[clusterstate.Node](apierror.New(apierror.CodeNodeNotFound, "node not found"))
	}
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	n.LastHeartbeat = ts
	prevStatus := n.Status
	if msg.Status != nil {
		n.Status = *msg.Status
	}
	if msg.Allocated != nil {
		n.Allocated = *msg.Allocated
	}
	n.UpdatedAt = time.Now()
	if prevStatus != n.Status {
		telemetry.NodesByStatus.WithLabelValues(string(prevStatus)).Dec()
		telemetry.NodesByStatus.WithLabelValues(string(n.Status)).Inc()
	}
	return apierror.Ok(*n)
}

// Get returns a Node by ID.
func (m *Manager) Get(nodeID string) (clusterstate.Node, bool) {
	m.state.Lock()
	defer m.state.Unlock()
	n, ok := m.state.Nodes[nodeID]
	if !ok {
		return clusterstate.Node{}, false
	}
	return *n, true
}

// List returns every registered node.
func (m *Manager) List() []clusterstate.Node {
	m.state.Lock()
	defer m.state.Unlock()
	return lo.Map(lo.Values(m.state.Nodes), func(n *clusterstate.Node, _ int) clusterstate.Node { return *n })
}

func copyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
