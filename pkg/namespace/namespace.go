// Package namespace implements NamespaceManager: namespace lifecycle,
// quota checking (quota.go), and limit-range defaulting/validation
// (limitrange.go), per spec.md §4.3.
package namespace

import (
	"fmt"
	"regexp"
	"time"

	"github.com/wisbric/orbit/pkg/apierror"
	"github.com/wisbric/orbit/pkg/clusterstate"
)

// Reserved namespace names, always present after initialization.
const (
	Default = "default"
	System  = "<system>"
	Public  = "<public>"
)

var reserved = map[string]bool{Default: true, System: true, Public: true}

// namePattern restricts namespace names to DNS-label-like identifiers.
var namePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// Config holds the NamespaceManager's configurable keys (spec.md §6).
type Config struct {
	InitializeDefaults bool
}

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config {
	return Config{InitializeDefaults: true}
}

// Manager is the NamespaceManager.
type Manager struct {
	state *clusterstate.State
	cfg   Config
}

// New creates a Manager over the given shared cluster state. If
// cfg.InitializeDefaults is set, the three reserved namespaces are created
// immediately if missing.
func New(state *clusterstate.State, cfg Config) *Manager {
	m := &Manager{state: state, cfg: cfg}
	if cfg.InitializeDefaults {
		m.initializeDefaults()
	}
	return m
}

func (m *Manager) initializeDefaults() {
	m.state.Lock()
	defer m.state.Unlock()
	now := time.Now()
	for _, name := range []string{Default, System, Public} {
		if _, exists := m.state.Namespaces[name]; exists {
			continue
		}
		m.state.Namespaces[name] = &clusterstate.Namespace{
			Name:      name,
			Phase:     clusterstate.NamespaceActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
}

// CreateInput describes a new Namespace.
type CreateInput struct {
	Name          string
	Labels        map[string]string
	Annotations   map[string]string
	ResourceQuota *clusterstate.ResourceQuota
	LimitRange    *clusterstate.LimitRange
	CreatedBy     string
}

// Create registers a new Namespace. Rejects reserved names, syntactically
// invalid names, and duplicates.
func (m *Manager) Create(in CreateInput) apierror.Result[clusterstate.Namespace] {
	if !namePattern.MatchString(in.Name) {
		return apierror.Fail[clusterstate.Namespace](apierror.New(apierror.CodeValidationError, "invalid namespace name"))
	}
	if reserved[in.Name] {
		return apierror.Fail[clusterstate.Namespace](apierror.New(apierror.CodeReservedNamespace, fmt.Sprintf("namespace %q is reserved", in.Name)))
	}

	m.state.Lock()
	defer m.state.Unlock()

	if _, exists := m.state.Namespaces[in.Name]; exists {
		return apierror.Fail[clusterstate.Namespace](apierror.New(apierror.CodeNamespaceExists, fmt.Sprintf("namespace %q already exists", in.Name)))
	}

	now := time.Now()
	ns := &clusterstate.Namespace{
		Name:          in.Name,
		Phase:         clusterstate.NamespaceActive,
		Labels:        in.Labels,
		Annotations:   in.Annotations,
		ResourceQuota: in.ResourceQuota,
		LimitRange:    in.LimitRange,
		CreatedBy:     in.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.state.Namespaces[in.Name] = ns
	return apierror.Ok(*ns)
}

// UpdateInput carries the mutable fields of a Namespace update.
type UpdateInput struct {
	Labels        map[string]string
	Annotations   map[string]string
	ResourceQuota *clusterstate.ResourceQuota
	LimitRange    *clusterstate.LimitRange
}

// Update modifies a Namespace's labels/annotations/quota/limit-range.
// Rejected while the namespace is terminating.
func (m *Manager) Update(name string, in UpdateInput) apierror.Result[clusterstate.Namespace] {
	m.state.Lock()
	defer m.state.Unlock()

	ns, ok := m.state.Namespaces[name]
	if !ok {
		return apierror.Fail[clusterstate.Namespace](apierror.New(apierror.CodeNamespaceNotFound, "namespace not found"))
	}
	if ns.Phase == clusterstate.NamespaceTerminating {
		return apierror.Fail[clusterstate.Namespace](apierror.New(apierror.CodeNamespaceTerminating, "namespace is terminating"))
	}
	if in.Labels != nil {
		ns.Labels = in.Labels
	}
	if in.Annotations != nil {
		ns.Annotations = in.Annotations
	}
	if in.ResourceQuota != nil {
		ns.ResourceQuota = in.ResourceQuota
	}
	if in.LimitRange != nil {
		ns.LimitRange = in.LimitRange
	}
	ns.UpdatedAt = time.Now()
	return apierror.Ok(*ns)
}

// podCounter is injected by the scheduler (via WithPodCounter) so Delete
// can enforce "phase != active-with-pods unless force=true" without this
// package importing the scheduler (which depends on namespace, not the
// other way around).
type podCounter func(namespace string) int

var countPodsInNamespace podCounter

// SetPodCounter wires the scheduler's pod-count lookup into the
// NamespaceManager. Called once during composition-root wiring.
func SetPodCounter(f func(namespace string) int) {
	countPodsInNamespace = f
}

// Delete removes a Namespace. default is never deletable. Requires the
// namespace hold no pods unless force is true.
func (m *Manager) Delete(name string, force bool) apierror.Result[struct{}] {
	if name == Default {
		return apierror.Fail[struct{}](apierror.New(apierror.CodeCannotDeleteDefault, "the default namespace cannot be deleted"))
	}

	m.state.Lock()
	defer m.state.Unlock()

	if _, ok := m.state.Namespaces[name]; !ok {
		return apierror.Fail[struct{}](apierror.New(apierror.CodeNamespaceNotFound, "namespace not found"))
	}
	if !force && countPodsInNamespace != nil && countPodsInNamespace(name) > 0 {
		return apierror.Fail[struct{}](apierror.New(apierror.CodeNamespaceNotEmpty, "namespace still has pods"))
	}
	delete(m.state.Namespaces, name)
	return apierror.Ok(struct{}{})
}

// MarkTerminating transitions a Namespace to phase=terminating. Idempotent.
func (m *Manager) MarkTerminating(name string) apierror.Result[clusterstate.Namespace] {
	m.state.Lock()
	defer m.state.Unlock()
	ns, ok := m.state.Namespaces[name]
	if !ok {
		return apierror.Fail[clusterstate.Namespace](apierror.New(apierror.CodeNamespaceNotFound, "namespace not found"))
	}
	ns.Phase = clusterstate.NamespaceTerminating
	ns.UpdatedAt = time.Now()
	return apierror.Ok(*ns)
}

// Get returns a Namespace by name.
func (m *Manager) Get(name string) (clusterstate.Namespace, bool) {
	m.state.Lock()
	defer m.state.Unlock()
	ns, ok := m.state.Namespaces[name]
	if !ok {
		return clusterstate.Namespace{}, false
	}
	return *ns, true
}

// List returns every Namespace.
func (m *Manager) List() []clusterstate.Namespace {
	m.state.Lock()
	defer m.state.Unlock()
	out := make([]clusterstate.Namespace, 0, len(m.state.Namespaces))
	for _, ns := range m.state.Namespaces {
		out = append(out, *ns)
	}
	return out
}
