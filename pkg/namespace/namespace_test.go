package namespace

import (
	"testing"

	"github.com/wisbric/orbit/pkg/apierror"
	"github.com/wisbric/orbit/pkg/clusterstate"
)

func int64p(v int64) *int64 { return &v }

func TestNew_InitializesReservedNamespaces(t *testing.T) {
	m := New(clusterstate.New(), DefaultConfig())
	for _, name := range []string{Default, System, Public} {
		if _, ok := m.Get(name); !ok {
			t.Errorf("expected reserved namespace %q to exist", name)
		}
	}
}

func TestCreate_RejectsReservedName(t *testing.T) {
	m := New(clusterstate.New(), DefaultConfig())
	res := m.Create(CreateInput{Name: Default})
	if res.Success || res.Err.Code != apierror.CodeReservedNamespace {
		t.Fatalf("got %+v, want RESERVED_NAMESPACE", res)
	}
}

func TestCreate_RejectsDuplicate(t *testing.T) {
	m := New(clusterstate.New(), DefaultConfig())
	m.Create(CreateInput{Name: "team-a"})
	res := m.Create(CreateInput{Name: "team-a"})
	if res.Success || res.Err.Code != apierror.CodeNamespaceExists {
		t.Fatalf("got %+v, want NAMESPACE_EXISTS", res)
	}
}

func TestCreate_RejectsInvalidName(t *testing.T) {
	m := New(clusterstate.New(), DefaultConfig())
	res := m.Create(CreateInput{Name: "Invalid_Name!"})
	if res.Success {
		t.Fatal("expected invalid name to be rejected")
	}
}

func TestUpdate_RejectedWhileTerminating(t *testing.T) {
	m := New(clusterstate.New(), DefaultConfig())
	m.Create(CreateInput{Name: "team-a"})
	m.MarkTerminating("team-a")

	res := m.Update("team-a", UpdateInput{Labels: map[string]string{"x": "y"}})
	if res.Success || res.Err.Code != apierror.CodeNamespaceTerminating {
		t.Fatalf("got %+v, want NAMESPACE_TERMINATING", res)
	}
}

func TestMarkTerminating_Idempotent(t *testing.T) {
	m := New(clusterstate.New(), DefaultConfig())
	m.Create(CreateInput{Name: "team-a"})

	m.MarkTerminating("team-a")
	res := m.MarkTerminating("team-a")
	if !res.Success || res.Data.Phase != clusterstate.NamespaceTerminating {
		t.Fatalf("got %+v", res)
	}
}

func TestDelete_DefaultNeverDeletable(t *testing.T) {
	m := New(clusterstate.New(), DefaultConfig())
	res := m.Delete(Default, true)
	if res.Success || res.Err.Code != apierror.CodeCannotDeleteDefault {
		t.Fatalf("got %+v, want CANNOT_DELETE_DEFAULT", res)
	}
}

func TestDelete_RejectsNonEmptyWithoutForce(t *testing.T) {
	m := New(clusterstate.New(), DefaultConfig())
	m.Create(CreateInput{Name: "team-a"})
	SetPodCounter(func(ns string) int {
		if ns == "team-a" {
			return 1
		}
		return 0
	})
	defer SetPodCounter(nil)

	res := m.Delete("team-a", false)
	if res.Success || res.Err.Code != apierror.CodeNamespaceNotEmpty {
		t.Fatalf("got %+v, want NAMESPACE_NOT_EMPTY", res)
	}

	forced := m.Delete("team-a", true)
	if !forced.Success {
		t.Fatalf("force delete should succeed, got %v", forced.Err)
	}
}

func TestCheckQuota_UnsetAxisIsUnbounded(t *testing.T) {
	m := New(clusterstate.New(), DefaultConfig())
	m.Create(CreateInput{Name: "team-a", ResourceQuota: &clusterstate.ResourceQuota{CPU: int64p(1000)}})

	res := m.CheckQuota("team-a", clusterstate.Resources{CPU: 500, Memory: 1 << 40})
	if !res.Success || !res.Data.Allowed {
		t.Fatalf("got %+v, want allowed (memory axis unbounded)", res)
	}
}

func TestAllocateResources_ExactlyAtLimitSucceeds(t *testing.T) {
	m := New(clusterstate.New(), DefaultConfig())
	m.Create(CreateInput{Name: "team-a", ResourceQuota: &clusterstate.ResourceQuota{CPU: int64p(1000), Pods: int64p(1)}})

	res := m.AllocateResources("team-a", clusterstate.Resources{CPU: 1000, Pods: 1})
	if !res.Success {
		t.Fatalf("allocation exactly at quota should succeed: %v", res.Err)
	}

	over := m.AllocateResources("team-a", clusterstate.Resources{CPU: 1})
	if over.Success || over.Err.Code != apierror.CodeQuotaExceeded {
		t.Fatalf("got %+v, want QUOTA_EXCEEDED", over)
	}
}

func TestAllocateResources_FailureDoesNotMutate(t *testing.T) {
	m := New(clusterstate.New(), DefaultConfig())
	m.Create(CreateInput{Name: "team-a", ResourceQuota: &clusterstate.ResourceQuota{CPU: int64p(100)}})

	m.AllocateResources("team-a", clusterstate.Resources{CPU: 200})
	ns, _ := m.Get("team-a")
	if ns.ResourceUsage.CPU != 0 {
		t.Fatalf("resource usage = %+v, want unchanged after a failed allocation", ns.ResourceUsage)
	}
}

func TestReleaseResources_ClampsAtZero(t *testing.T) {
	m := New(clusterstate.New(), DefaultConfig())
	m.Create(CreateInput{Name: "team-a"})
	m.AllocateResources("team-a", clusterstate.Resources{CPU: 10})

	m.ReleaseResources("team-a", clusterstate.Resources{CPU: 1000})
	ns, _ := m.Get("team-a")
	if ns.ResourceUsage.CPU != 0 {
		t.Errorf("cpu usage = %d, want 0", ns.ResourceUsage.CPU)
	}
}

func TestApplyDefaults_FillsUnsetAxesOnly(t *testing.T) {
	lr := &clusterstate.LimitRange{
		CPU:    clusterstate.LimitRangeAxis{DefaultRequest: int64p(100), Default: int64p(500)},
		Memory: clusterstate.LimitRangeAxis{DefaultRequest: int64p(128), Default: int64p(256)},
	}
	reqs := ResourcePair{CPU: 200}
	gotReq, gotLim := ApplyDefaults(lr, &reqs, nil)

	if gotReq.CPU != 200 {
		t.Errorf("explicit CPU request overridden: got %d", gotReq.CPU)
	}
	if gotReq.Memory != 128 {
		t.Errorf("memory request default = %d, want 128", gotReq.Memory)
	}
	if gotLim.CPU != 500 || gotLim.Memory != 256 {
		t.Errorf("limits = %+v, want defaults", gotLim)
	}
}

func TestValidateResources_RequestsExceedLimits(t *testing.T) {
	lr := &clusterstate.LimitRange{
		CPU: clusterstate.LimitRangeAxis{Min: int64p(10), Max: int64p(1000)},
	}
	failures := ValidateResources(lr, ResourcePair{CPU: 2000}, ResourcePair{CPU: 500})
	if len(failures) == 0 {
		t.Fatal("expected validation failures for requests > limits and limits > max")
	}
}

func TestValidateResources_NilLimitRangeAlwaysPasses(t *testing.T) {
	failures := ValidateResources(nil, ResourcePair{CPU: 999999}, ResourcePair{})
	if len(failures) != 0 {
		t.Errorf("expected no failures with a nil limit range, got %v", failures)
	}
}
