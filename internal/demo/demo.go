// Package demo provisions a small, illustrative scenario against a freshly
// built Core: a node, a pack version, a namespace, a secret, and a pod
// scheduled onto the node. It exists for local exploration of the core;
// production callers construct a Core and drive it directly.
package demo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wisbric/orbit/pkg/authservice"
	"github.com/wisbric/orbit/pkg/clusterstate"
	"github.com/wisbric/orbit/pkg/core"
	"github.com/wisbric/orbit/pkg/namespace"
	"github.com/wisbric/orbit/pkg/node"
	"github.com/wisbric/orbit/pkg/pack"
	"github.com/wisbric/orbit/pkg/scheduler"
	"github.com/wisbric/orbit/pkg/secret"
)

// Run seeds c with a small scenario and logs each step's outcome.
func Run(ctx context.Context, c *core.Core, logger *slog.Logger) error {
	nodeRes := c.Nodes.Register(node.RegisterInput{
		Name:        "demo-node-1",
		RuntimeType: clusterstate.RuntimeNode,
		Allocatable: clusterstate.Resources{CPU: 4000, Memory: 8192, Pods: 32},
	})
	if !nodeRes.Success {
		return fmt.Errorf("registering demo node: %w", nodeRes.Err)
	}
	logger.Info("demo: registered node", "node_id", nodeRes.Data.ID, "name", nodeRes.Data.Name)

	packRes := c.Packs.Register("demo", pack.RegisterInput{
		Name:       "demo-service",
		Version:    "1.0.0",
		RuntimeTag: clusterstate.RuntimeNode,
		OwnerID:    "demo",
	})
	if !packRes.Success {
		return fmt.Errorf("registering demo pack: %w", packRes.Err)
	}
	logger.Info("demo: registered pack", "pack_id", packRes.Data.Pack.ID, "version", packRes.Data.Pack.Version)

	nsRes := c.Namespaces.Create(namespace.CreateInput{Name: "demo"})
	if !nsRes.Success {
		return fmt.Errorf("creating demo namespace: %w", nsRes.Err)
	}
	logger.Info("demo: created namespace", "name", nsRes.Data.Name)

	secretRes := c.Secrets.Create(secret.CreateInput{
		Name:      "demo-creds",
		Namespace: "demo",
		Data:      map[string]string{"api-key": "s3cr3t-demo-value"},
	})
	if !secretRes.Success {
		return fmt.Errorf("creating demo secret: %w", secretRes.Err)
	}
	logger.Info("demo: created secret", "secret_id", secretRes.Data.ID, "keys", secretRes.Data.KeyCount)

	podRes := c.Scheduler.Create(scheduler.CreateInput{
		PackID:           packRes.Data.Pack.ID,
		Namespace:        "demo",
		ResourceRequests: clusterstate.ResourceList{CPU: 500, Memory: 512},
		CreatedBy:        "demo",
	})
	if !podRes.Success {
		return fmt.Errorf("creating demo pod: %w", podRes.Err)
	}
	logger.Info("demo: created pod", "pod_id", podRes.Data.ID, "status", podRes.Data.Status)

	scheduled := c.Scheduler.Schedule(podRes.Data.ID)
	if !scheduled.Success {
		return fmt.Errorf("scheduling demo pod: %w", scheduled.Err)
	}
	logger.Info("demo: scheduled pod", "pod_id", scheduled.Data.ID, "node_id", scheduled.Data.NodeID)

	regRes := c.Auth.Register(ctx, authservice.RegisterInput{
		Email:       "demo@orbit.invalid",
		Password:    "DemoPass1",
		DisplayName: "Demo Operator",
	})
	if !regRes.Success {
		return fmt.Errorf("registering demo user: %w", regRes.Err)
	}
	logger.Info("demo: registered user and installed session", "user_id", regRes.Data.User.ID)

	return nil
}
