package scheduler

import (
	"time"

	"github.com/google/uuid"

	"github.com/wisbric/orbit/pkg/apierror"
	"github.com/wisbric/orbit/pkg/clusterstate"
	"github.com/wisbric/orbit/pkg/namespace"
	"github.com/wisbric/orbit/pkg/pack"
)

// CreateInput describes a new Pod.
type CreateInput struct {
	PackID            string
	PackVersion       string // optional override; defaults to the pack's current version
	Namespace         string
	Labels            map[string]string
	Annotations       map[string]string
	PriorityClassName string
	Tolerations       []clusterstate.Toleration
	ResourceRequests  clusterstate.ResourceList
	ResourceLimits    clusterstate.ResourceList
	Scheduling        clusterstate.SchedulingConstraints
	Metadata          map[string]string
	CreatedBy         string
}

// Create validates input, resolves the Pack/Namespace/priority, pre-checks
// Namespace quota, and constructs a pending Pod. Pods remain pending if no
// compatible node exists yet — that is not a failure (spec.md §4.5.1).
func (s *Scheduler) Create(in CreateInput) apierror.Result[clusterstate.Pod] {
	if in.PackID == "" {
		return apierror.Fail[clusterstate.Pod](apierror.New(apierror.CodeValidationError, "packId is required"))
	}
	if in.Namespace == "" {
		return apierror.Fail[clusterstate.Pod](apierror.New(apierror.CodeValidationError, "namespace is required"))
	}

	s.state.Lock()
	defer s.state.Unlock()

	p, ok := pack.GetLocked(s.state, in.PackID)
	if !ok {
		return apierror.Fail[clusterstate.Pod](apierror.New(apierror.CodePackNotFound, "pack not found"))
	}
	version := in.PackVersion
	if version == "" {
		version = p.Version
	}

	ns, ok := s.state.Namespaces[in.Namespace]
	if !ok {
		return apierror.Fail[clusterstate.Pod](apierror.New(apierror.CodeNamespaceNotFound, "namespace not found"))
	}
	if ns.Phase == clusterstate.NamespaceTerminating {
		return apierror.Fail[clusterstate.Pod](apierror.New(apierror.CodeNamespaceTerminating, "namespace is terminating"))
	}

	priority := s.resolvePriority(in.PriorityClassName)

	required := clusterstate.Resources{Pods: 1, CPU: in.ResourceRequests.CPU, Memory: in.ResourceRequests.Memory}
	if err := namespace.AllocateLocked(ns, required, in.Namespace); err != nil {
		return apierror.Fail[clusterstate.Pod](apierror.New(apierror.CodeNamespaceQuotaExceeded, err.Message).WithDetails(err.Details))
	}

	now := time.Now()
	pod := &clusterstate.Pod{
		ID:                uuid.NewString(),
		PackID:            in.PackID,
		PackVersion:       version,
		Status:            clusterstate.PodPending,
		Namespace:         in.Namespace,
		Labels:            in.Labels,
		Annotations:       in.Annotations,
		PriorityClassName: in.PriorityClassName,
		Priority:          priority,
		Tolerations:       in.Tolerations,
		ResourceRequests:  in.ResourceRequests,
		ResourceLimits:    in.ResourceLimits,
		Scheduling:        in.Scheduling,
		CreatedBy:         in.CreatedBy,
		Metadata:          in.Metadata,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	appendHistory(pod, clusterstate.PodHistoryEntry{
		Action:     clusterstate.HistoryCreated,
		ActorID:    in.CreatedBy,
		PostStatus: clusterstate.PodPending,
		PostVersion: version,
	})
	s.state.Pods[pod.ID] = pod

	return apierror.Ok(*pod)
}
