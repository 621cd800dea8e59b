package namespace

import (
	"github.com/wisbric/orbit/internal/telemetry"
	"github.com/wisbric/orbit/pkg/apierror"
	"github.com/wisbric/orbit/pkg/clusterstate"
)

const unboundedAxis = int64(1<<62 - 1)

// ExceededAxis reports one resource axis that a quota check would exceed.
type ExceededAxis struct {
	Axis      string
	Requested int64
	Remaining int64
}

// QuotaCheck is the result of checkQuota: whether the request is allowed,
// the per-axis remaining capacity, and which axes (if any) were exceeded.
type QuotaCheck struct {
	Allowed   bool
	Remaining clusterstate.Resources
	Exceeded  []ExceededAxis
}

func setAxis(r *clusterstate.Resources, axis string, v int64) {
	switch axis {
	case "pods":
		r.Pods = v
	case "cpu":
		r.CPU = v
	case "memory":
		r.Memory = v
	case "storage":
		r.Storage = v
	}
}

// checkQuota reports whether required fits within ns's unused quota.
// Unset quota axes are unbounded. Caller must hold the state lock.
func checkQuota(ns *clusterstate.Namespace, required clusterstate.Resources) QuotaCheck {
	result := QuotaCheck{Allowed: true}
	if ns.ResourceQuota == nil {
		result.Remaining = clusterstate.Resources{CPU: unboundedAxis, Memory: unboundedAxis, Pods: unboundedAxis, Storage: unboundedAxis}
		return result
	}
	q := ns.ResourceQuota
	evaluate := func(axis string, hard *int64, used, req int64) {
		if hard == nil {
			setAxis(&result.Remaining, axis, unboundedAxis)
			return
		}
		remaining := *hard - used
		setAxis(&result.Remaining, axis, remaining)
		if req > remaining {
			result.Allowed = false
			result.Exceeded = append(result.Exceeded, ExceededAxis{Axis: axis, Requested: req, Remaining: remaining})
		}
	}
	evaluate("pods", q.Pods, ns.ResourceUsage.Pods, required.Pods)
	evaluate("cpu", q.CPU, ns.ResourceUsage.CPU, required.CPU)
	evaluate("memory", q.Memory, ns.ResourceUsage.Memory, required.Memory)
	evaluate("storage", q.Storage, ns.ResourceUsage.Storage, required.Storage)
	return result
}

// CheckQuota reports whether required would fit in namespace name's unused
// quota without mutating anything.
func (m *Manager) CheckQuota(name string, required clusterstate.Resources) apierror.Result[QuotaCheck] {
	m.state.Lock()
	defer m.state.Unlock()
	ns, ok := m.state.Namespaces[name]
	if !ok {
		return apierror.Fail[QuotaCheck](apierror.New(apierror.CodeNamespaceNotFound, "namespace not found"))
	}
	return apierror.Ok(checkQuota(ns, required))
}

// AllocateResources performs an atomic check+increment of the namespace's
// resource usage, failing QUOTA_EXCEEDED without mutating state if any
// axis would be exceeded.
func (m *Manager) AllocateResources(name string, required clusterstate.Resources) apierror.Result[clusterstate.Namespace] {
	m.state.Lock()
	defer m.state.Unlock()
	ns, ok := m.state.Namespaces[name]
	if !ok {
		return apierror.Fail[clusterstate.Namespace](apierror.New(apierror.CodeNamespaceNotFound, "namespace not found"))
	}
	if err := AllocateLocked(ns, required, name); err != nil {
		return apierror.Fail[clusterstate.Namespace](err)
	}
	return apierror.Ok(*ns)
}

// AllocateLocked is the lock-free core of AllocateResources, used by the
// scheduler when it already holds the state lock for a create/schedule
// attempt spanning both Namespace and Node accounting.
func AllocateLocked(ns *clusterstate.Namespace, required clusterstate.Resources, namespaceName string) *apierror.Error {
	check := checkQuota(ns, required)
	if !check.Allowed {
		for _, ex := range check.Exceeded {
			telemetry.NamespaceQuotaRejectionsTotal.WithLabelValues(namespaceName, ex.Axis).Inc()
		}
		return apierror.New(apierror.CodeQuotaExceeded, "namespace quota exceeded").
			WithDetails(map[string]any{"exceeded": check.Exceeded})
	}
	ns.ResourceUsage = ns.ResourceUsage.Add(required)
	return nil
}

// ReleaseResources clamps the namespace's resource usage down by required,
// never going negative. Idempotent: releasing twice just clamps at zero.
func (m *Manager) ReleaseResources(name string, required clusterstate.Resources) {
	m.state.Lock()
	defer m.state.Unlock()
	ns, ok := m.state.Namespaces[name]
	if !ok {
		return
	}
	ReleaseLocked(ns, required)
}

// ReleaseLocked is the lock-free core of ReleaseResources.
func ReleaseLocked(ns *clusterstate.Namespace, required clusterstate.Resources) {
	ns.ResourceUsage = ns.ResourceUsage.Sub(required)
}
