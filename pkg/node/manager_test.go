package node

import (
	"context"
	"testing"
	"time"

	"github.com/wisbric/orbit/pkg/apierror"
	"github.com/wisbric/orbit/pkg/clusterstate"
)

func newTestManager(hook UnhealthyHook) *Manager {
	return New(clusterstate.New(), DefaultConfig(), nil, hook)
}

func mustRegister(t *testing.T, m *Manager, name string) clusterstate.Node {
	t.Helper()
	res := m.Register(RegisterInput{
		Name:        name,
		RuntimeType: clusterstate.RuntimeNode,
		Allocatable: clusterstate.Resources{CPU: 4000, Memory: 8192, Pods: 16},
	})
	if !res.Success {
		t.Fatalf("register %q: %v", name, res.Err)
	}
	return res.Data
}

func TestRegister_DuplicateNameRejected(t *testing.T) {
	m := newTestManager(nil)
	mustRegister(t, m, "node-a")

	res := m.Register(RegisterInput{Name: "node-a", RuntimeType: clusterstate.RuntimeNode})
	if res.Success {
		t.Fatal("expected duplicate name to fail")
	}
	if res.Err.Code != apierror.CodeNodeExists {
		t.Errorf("code = %q, want %q", res.Err.Code, apierror.CodeNodeExists)
	}
}

func TestRegister_RejectsUniversalRuntime(t *testing.T) {
	m := newTestManager(nil)
	res := m.Register(RegisterInput{Name: "node-a", RuntimeType: clusterstate.RuntimeUniversal})
	if res.Success {
		t.Fatal("expected universal runtime to be rejected for a node")
	}
}

func TestDeregister_OnlyRegisteringCallerMayDeregister(t *testing.T) {
	m := newTestManager(nil)
	res := m.Register(RegisterInput{
		Name:         "node-a",
		RuntimeType:  clusterstate.RuntimeNode,
		RegisteredBy: "user-1",
	})
	n := res.Data

	if got := m.Deregister("user-2", n.ID); got.Success {
		t.Fatal("expected non-owner deregister to fail")
	}
	if got := m.Deregister("user-1", n.ID); !got.Success {
		t.Fatalf("expected owner deregister to succeed, got %v", got.Err)
	}
	if _, ok := m.Get(n.ID); ok {
		t.Fatal("node should be gone after deregister")
	}
}

func TestAllocateResources_RejectsOverCapacity(t *testing.T) {
	m := newTestManager(nil)
	n := mustRegister(t, m, "node-a")

	ok := m.AllocateResources(n.ID, clusterstate.Resources{CPU: 4000, Memory: 8192, Pods: 16})
	if !ok.Success {
		t.Fatalf("expected allocation at exact capacity to succeed: %v", ok.Err)
	}

	over := m.AllocateResources(n.ID, clusterstate.Resources{CPU: 1})
	if over.Success {
		t.Fatal("expected over-capacity allocation to fail")
	}
}

func TestReleaseResources_ClampsAtZero(t *testing.T) {
	m := newTestManager(nil)
	n := mustRegister(t, m, "node-a")
	m.AllocateResources(n.ID, clusterstate.Resources{CPU: 100, Memory: 100, Pods: 1})

	res := m.ReleaseResources(n.ID, clusterstate.Resources{CPU: 1000, Memory: 1000, Pods: 1000})
	if !res.Success {
		t.Fatalf("release should always succeed: %v", res.Err)
	}
	if res.Data.Allocated != (clusterstate.Resources{}) {
		t.Errorf("allocated = %+v, want zero", res.Data.Allocated)
	}
}

func TestAddTaint_IdempotentOnExactMatch(t *testing.T) {
	m := newTestManager(nil)
	n := mustRegister(t, m, "node-a")
	taint := clusterstate.Taint{Key: "dedicated", Value: "gpu", Effect: clusterstate.TaintNoSchedule}

	m.AddTaint(n.ID, taint)
	res := m.AddTaint(n.ID, taint)
	if !res.Success {
		t.Fatalf("repeat AddTaint should succeed: %v", res.Err)
	}
	if len(res.Data.Taints) != 1 {
		t.Errorf("taints = %v, want exactly one entry", res.Data.Taints)
	}
}

func TestRemoveTaint_NoopWhenAbsent(t *testing.T) {
	m := newTestManager(nil)
	n := mustRegister(t, m, "node-a")

	res := m.RemoveTaint(n.ID, clusterstate.Taint{Key: "x", Value: "y", Effect: clusterstate.TaintNoSchedule})
	if !res.Success {
		t.Fatalf("RemoveTaint on absent taint should succeed as a no-op: %v", res.Err)
	}
	if len(res.Data.Taints) != 0 {
		t.Errorf("taints = %v, want empty", res.Data.Taints)
	}
}

func TestSweep_ExactlyAtTimeoutIsNotUnhealthy(t *testing.T) {
	var transitioned []string
	m := newTestManager(func(nodeID, nodeName string) {
		transitioned = append(transitioned, nodeName)
	})
	n := mustRegister(t, m, "node-a")

	boundary := n.LastHeartbeat.Add(m.cfg.HeartbeatTimeout)
	m.sweep(boundary)
	if len(transitioned) != 0 {
		t.Fatalf("expected no transition exactly at the timeout boundary, got %v", transitioned)
	}

	afterBoundary := boundary.Add(time.Nanosecond)
	m.sweep(afterBoundary)
	if len(transitioned) != 1 || transitioned[0] != "node-a" {
		t.Fatalf("expected exactly one transition just past the boundary, got %v", transitioned)
	}

	got, _ := m.Get(n.ID)
	if got.Status != clusterstate.NodeUnhealthy {
		t.Errorf("status = %q, want unhealthy", got.Status)
	}
}

func TestSweep_OneHookCallPerTransition(t *testing.T) {
	calls := 0
	m := newTestManager(func(nodeID, nodeName string) { calls++ })
	n := mustRegister(t, m, "node-a")

	future := n.LastHeartbeat.Add(time.Hour)
	m.sweep(future)
	m.sweep(future.Add(time.Second))

	if calls != 1 {
		t.Fatalf("hook calls = %d, want exactly 1", calls)
	}
}

func TestSweep_HookPanicDoesNotAbortRemainingNodes(t *testing.T) {
	var seen []string
	m := newTestManager(func(nodeID, nodeName string) {
		seen = append(seen, nodeName)
		if nodeName == "node-a" {
			panic("boom")
		}
	})
	mustRegister(t, m, "node-a")
	mustRegister(t, m, "node-b")

	future := time.Now().Add(time.Hour)
	m.sweep(future)

	if len(seen) != 2 {
		t.Fatalf("expected both nodes' hooks to run despite a panic, got %v", seen)
	}
}

func TestStartLivenessMonitor_IdempotentStartAndDispose(t *testing.T) {
	m := newTestManager(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.StartLivenessMonitor(ctx)
	m.StartLivenessMonitor(ctx)
	if !m.started {
		t.Fatal("expected monitor to be running")
	}

	m.Dispose()
	m.Dispose()
	if m.started {
		t.Fatal("expected monitor to be stopped")
	}
}

func TestCordonUncordon(t *testing.T) {
	m := newTestManager(nil)
	n := mustRegister(t, m, "node-a")

	res := m.Cordon(n.ID)
	if !res.Success || !res.Data.Unschedulable || res.Data.Status != clusterstate.NodeDraining {
		t.Fatalf("cordon result = %+v", res)
	}

	res = m.Uncordon(n.ID)
	if !res.Success || res.Data.Unschedulable || res.Data.Status != clusterstate.NodeOnline {
		t.Fatalf("uncordon result = %+v", res)
	}
}
