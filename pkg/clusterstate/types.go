package clusterstate

import "time"

// NodeStatus is the lifecycle status of a registered Node.
type NodeStatus string

const (
	NodeOnline      NodeStatus = "online"
	NodeSuspect     NodeStatus = "suspect"
	NodeDraining    NodeStatus = "draining"
	NodeMaintenance NodeStatus = "maintenance"
	NodeUnhealthy   NodeStatus = "unhealthy"
	NodeOffline     NodeStatus = "offline"
)

// RuntimeType is the kind of workload a Node or Pack targets.
type RuntimeType string

const (
	RuntimeNode     RuntimeType = "node"
	RuntimeBrowser  RuntimeType = "browser"
	RuntimeUniversal RuntimeType = "universal" // Pack-only; never a Node's RuntimeType
)

// TaintEffect is the scheduling consequence of a Node taint.
type TaintEffect string

const (
	TaintNoSchedule       TaintEffect = "NoSchedule"
	TaintPreferNoSchedule TaintEffect = "PreferNoSchedule"
	TaintNoExecute        TaintEffect = "NoExecute"
)

// Taint repels pods that do not carry a matching Toleration.
type Taint struct {
	Key    string
	Value  string
	Effect TaintEffect
}

// Node is a worker registered with the control plane.
type Node struct {
	ID            string
	Name          string
	RuntimeType   RuntimeType
	Status        NodeStatus
	LastHeartbeat time.Time
	ConnectionID  string
	Capabilities  map[string]string
	Allocatable   Resources
	Allocated     Resources
	Labels        map[string]string
	Annotations   map[string]string
	Taints        []Taint
	Unschedulable bool
	RegisteredBy  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsSchedulable reports whether the node may receive new pods.
func (n *Node) IsSchedulable() bool {
	return n.Status == NodeOnline && !n.Unschedulable
}

// PodStatus is the lifecycle status of a Pod.
type PodStatus string

const (
	PodPending   PodStatus = "pending"
	PodScheduled PodStatus = "scheduled"
	PodStarting  PodStatus = "starting"
	PodRunning   PodStatus = "running"
	PodStopping  PodStatus = "stopping"
	PodStopped   PodStatus = "stopped"
	PodFailed    PodStatus = "failed"
	PodEvicted   PodStatus = "evicted"
)

// IsTerminal reports whether status is a terminal Pod status.
func (s PodStatus) IsTerminal() bool {
	return s == PodStopped || s == PodFailed || s == PodEvicted
}

// HoldsResources reports whether a pod in this status still reserves
// resources on its Node and Namespace.
func (s PodStatus) HoldsResources() bool {
	switch s {
	case PodPending, PodScheduled, PodStarting, PodRunning, PodStopping:
		return true
	default:
		return false
	}
}

// TolerationOperator is the match mode of a Pod Toleration.
type TolerationOperator string

const (
	TolerationEqual  TolerationOperator = "Equal"
	TolerationExists TolerationOperator = "Exists"
)

// Toleration allows a Pod to be scheduled onto a Node carrying a matching Taint.
type Toleration struct {
	Key      string
	Operator TolerationOperator
	Value    string
	Effect   TaintEffect // empty matches any effect
}

// NodeSelectorOperator is the comparison operator of a node affinity match expression.
type NodeSelectorOperator string

const (
	NodeSelectorIn           NodeSelectorOperator = "In"
	NodeSelectorNotIn        NodeSelectorOperator = "NotIn"
	NodeSelectorExists       NodeSelectorOperator = "Exists"
	NodeSelectorDoesNotExist NodeSelectorOperator = "DoesNotExist"
	NodeSelectorGt           NodeSelectorOperator = "Gt"
	NodeSelectorLt           NodeSelectorOperator = "Lt"
)

// NodeSelectorRequirement is a single match expression against node labels.
type NodeSelectorRequirement struct {
	Key      string
	Operator NodeSelectorOperator
	Values   []string
}

// NodeSelectorTerm is an AND of NodeSelectorRequirements.
type NodeSelectorTerm struct {
	MatchExpressions []NodeSelectorRequirement
}

// PreferredSchedulingTerm is a weighted soft node-affinity preference.
type PreferredSchedulingTerm struct {
	Weight     int
	Preference NodeSelectorTerm
}

// NodeAffinity holds required (hard) and preferred (soft) node affinity rules.
type NodeAffinity struct {
	Required  []NodeSelectorTerm // OR across terms, AND within a term
	Preferred []PreferredSchedulingTerm
}

// LabelSelector matches Pods (for pod affinity/anti-affinity) by exact label equality.
type LabelSelector struct {
	MatchLabels map[string]string
}

// WeightedPodAffinityTerm is a single weighted pod affinity/anti-affinity preference.
type WeightedPodAffinityTerm struct {
	Weight        int
	LabelSelector LabelSelector
}

// SchedulingConstraints holds all placement preferences/requirements for a Pod.
type SchedulingConstraints struct {
	NodeSelector       map[string]string
	NodeAffinity       NodeAffinity
	PodAffinity        []WeightedPodAffinityTerm
	PodAntiAffinity    []WeightedPodAffinityTerm
}

// ResourceList is a partial resource request/limit: cpu and memory only,
// per spec.md's Pod data model (pods/storage apply at the Namespace level).
type ResourceList struct {
	CPU    int64
	Memory int64
}

// PodHistoryAction is the kind of lifecycle event recorded for a Pod.
type PodHistoryAction string

const (
	HistoryCreated    PodHistoryAction = "created"
	HistoryScheduled  PodHistoryAction = "scheduled"
	HistoryStarted    PodHistoryAction = "started"
	HistoryStopped    PodHistoryAction = "stopped"
	HistoryFailed     PodHistoryAction = "failed"
	HistoryEvicted    PodHistoryAction = "evicted"
	HistoryUpdated    PodHistoryAction = "updated"
	HistoryRolledBack PodHistoryAction = "rolled_back"
	HistoryDeleted    PodHistoryAction = "deleted"
)

// PodHistoryEntry is a single append-only audit record for a Pod.
type PodHistoryEntry struct {
	Action     PodHistoryAction
	ActorID    string
	PreStatus  PodStatus
	PostStatus PodStatus
	PreVersion string
	PostVersion string
	PreNodeID  string
	PostNodeID string
	Reason     string
	Message    string
	Timestamp  time.Time
}

// Pod is a scheduled instance of a Pack running on a Node.
type Pod struct {
	ID                string
	PackID            string
	PackVersion       string
	NodeID            string // empty until scheduled
	Status            PodStatus
	StatusMessage     string
	Namespace         string
	Labels            map[string]string
	Annotations       map[string]string
	PriorityClassName string
	Priority          int
	Tolerations       []Toleration
	ResourceRequests  ResourceList
	ResourceLimits    ResourceList
	Scheduling        SchedulingConstraints
	CreatedBy         string
	Metadata          map[string]string
	History           []PodHistoryEntry
	ResourcesReleased bool // idempotence guard for terminal-transition release
	ScheduledAt       *time.Time
	StartedAt         *time.Time
	StoppedAt         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NamespacePhase is the lifecycle phase of a Namespace.
type NamespacePhase string

const (
	NamespaceActive      NamespacePhase = "active"
	NamespaceTerminating NamespacePhase = "terminating"
)

// ResourceQuota is an optional hard cap on Namespace resource usage.
// A nil pointer field means the axis is unbounded.
type ResourceQuota struct {
	Pods    *int64
	CPU     *int64
	Memory  *int64
	Storage *int64
}

// LimitRangeAxis is the default/defaultRequest/min/max bounds for one resource axis.
type LimitRangeAxis struct {
	Default        *int64
	DefaultRequest *int64
	Min            *int64
	Max            *int64
}

// LimitRange bounds per-pod resource requests/limits within a Namespace.
type LimitRange struct {
	CPU    LimitRangeAxis
	Memory LimitRangeAxis
}

// Namespace is an isolation and accounting boundary.
type Namespace struct {
	Name          string
	Phase         NamespacePhase
	Labels        map[string]string
	Annotations   map[string]string
	ResourceQuota *ResourceQuota
	LimitRange    *LimitRange
	ResourceUsage Resources
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PreemptionPolicy governs whether a PriorityClass's pods may preempt others.
type PreemptionPolicy string

const (
	PreemptLowerPriority PreemptionPolicy = "PreemptLowerPriority"
	PreemptNever         PreemptionPolicy = "Never"
)

// PriorityClass is a named priority value with an optional preemption policy.
type PriorityClass struct {
	Name             string
	Value            int
	PreemptionPolicy PreemptionPolicy
}

// Pack is an immutable versioned code artifact.
type Pack struct {
	ID          string
	Name        string
	Version     string
	RuntimeTag  RuntimeType
	OwnerID     string
	BundlePath  string
	Description string
	Metadata    map[string]string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
