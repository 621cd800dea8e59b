// Package core is the composition root: it wires ClusterState and every
// manager (PackRegistry, NodeManager, NamespaceManager, SecretManager,
// PodScheduler, AuthService) together, including the cross-manager hooks
// that spec.md §5 describes but that no single manager package may import
// directly without creating a cycle.
package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/wisbric/orbit/internal/config"
	"github.com/wisbric/orbit/internal/telemetry"
	"github.com/wisbric/orbit/pkg/authservice"
	"github.com/wisbric/orbit/pkg/authservice/localprovider"
	"github.com/wisbric/orbit/pkg/clusterstate"
	"github.com/wisbric/orbit/pkg/namespace"
	"github.com/wisbric/orbit/pkg/node"
	"github.com/wisbric/orbit/pkg/pack"
	"github.com/wisbric/orbit/pkg/scheduler"
	"github.com/wisbric/orbit/pkg/secret"
)

// Core aggregates the full control-plane: shared state plus every manager
// operating over it.
type Core struct {
	State      *clusterstate.State
	Packs      *pack.Registry
	Nodes      *node.Manager
	Namespaces *namespace.Manager
	Secrets    *secret.Manager
	Scheduler  *scheduler.Scheduler
	Auth       *authservice.Service

	logger *slog.Logger
}

// Options lets a caller override the default reference AuthProvider and the
// Pack upload-URL generator, the two injection points spec.md §6 names.
type Options struct {
	AuthProvider  authservice.AuthProvider
	UploadURLFunc pack.UploadURLFunc
	Logger        *slog.Logger
	NodeUnhealthy node.UnhealthyHook // composed with the scheduler's own hook below; may be nil
}

// New builds a fully wired Core from process configuration.
func New(cfg *config.Config, opts Options) *Core {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	state := clusterstate.New()
	packs := pack.New(state, opts.UploadURLFunc)
	namespaces := namespace.New(state, namespace.Config{
		InitializeDefaults: cfg.Namespace.InitializeDefaults,
	})
	secrets := secret.New(secret.Config{
		MasterKey:        cfg.Secret.MasterKey,
		DefaultNamespace: cfg.Secret.DefaultNamespace,
	})

	c := &Core{
		State:      state,
		Packs:      packs,
		Namespaces: namespaces,
		Secrets:    secrets,
		logger:     logger,
	}

	c.Nodes = node.New(state, node.Config{
		HeartbeatTimeout:          time.Duration(cfg.Node.HeartbeatTimeoutMs) * time.Millisecond,
		HeartbeatCheckInterval:    time.Duration(cfg.Node.HeartbeatCheckIntervalMs) * time.Millisecond,
		EnableHeartbeatMonitoring: cfg.Node.EnableHeartbeatMonitoring,
	}, telemetry.WithComponent(logger, "node"), c.onNodeUnhealthy(opts.NodeUnhealthy))

	c.Scheduler = scheduler.New(state, c.Nodes, namespaces, packs, scheduler.Config{
		MaxRetries:       cfg.Scheduler.MaxRetries,
		DefaultPriority:  cfg.Scheduler.DefaultPriority,
		EnablePreemption: cfg.Scheduler.EnablePreemption,
		Policy:           scheduler.Policy(cfg.Scheduler.Policy),
	}, telemetry.WithComponent(logger, "scheduler"))

	namespace.SetPodCounter(c.countActivePodsInNamespace)

	provider := opts.AuthProvider
	if provider == nil {
		provider = defaultProvider()
	}
	c.Auth = authservice.New(provider, authservice.Config{
		EnableAutoRefresh:       cfg.Auth.EnableAutoRefresh,
		AutoRefreshInterval:     time.Duration(cfg.Auth.AutoRefreshIntervalMs) * time.Millisecond,
		SessionRefreshThreshold: time.Duration(cfg.Auth.SessionRefreshThreshold) * time.Millisecond,
		SessionMaxAge:           time.Hour,
	}, telemetry.WithComponent(logger, "auth"))

	return c
}

// onNodeUnhealthy returns the hook NodeManager invokes on an
// online->unhealthy transition: it fails every non-terminal pod scheduled
// onto that node (spec.md §4.2, §4.5), then chains to an optional
// caller-supplied hook.
func (c *Core) onNodeUnhealthy(chain node.UnhealthyHook) node.UnhealthyHook {
	return func(nodeID, nodeName string) {
		n := c.Scheduler.FailPodsOnNode(nodeID, "node became unhealthy: "+nodeName)
		c.logger.Info("failed pods on unhealthy node", "node_id", nodeID, "node_name", nodeName, "pods_failed", n)
		if chain != nil {
			chain(nodeID, nodeName)
		}
	}
}

// countActivePodsInNamespace counts pods in namespace that still hold
// resources, wired into namespace.SetPodCounter so Delete can refuse to
// remove a namespace with live pods without this package importing the
// scheduler.
func (c *Core) countActivePodsInNamespace(ns string) int {
	n := 0
	for _, p := range c.Scheduler.List() {
		if p.Namespace == ns && !p.Status.IsTerminal() {
			n++
		}
	}
	return n
}

// Start begins the liveness-monitor and auth auto-refresh timers.
func (c *Core) Start(ctx context.Context) {
	c.Nodes.StartLivenessMonitor(ctx)
}

// Shutdown stops all timers. Idempotent.
func (c *Core) Shutdown() {
	c.Nodes.Dispose()
	c.Auth.Dispose()
}

// defaultProvider returns the reference in-memory AuthProvider used when a
// caller does not supply its own.
func defaultProvider() authservice.AuthProvider {
	return localprovider.New()
}
