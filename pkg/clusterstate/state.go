// Package clusterstate holds the single, shared, in-memory state owned by
// the orbit control plane core: Nodes, Pods, Packs, Namespaces and
// PriorityClasses. It is a leaf dependency — every manager in the core
// holds a non-owning reference to a *State and mutates it only through
// its own serialized operations; State itself never calls back into a
// manager.
//
// All reads and writes are serialized by the embedded mutex, giving the
// "no two operations observe torn state" guarantee the core's concurrency
// model requires. Callers lock for the duration of one logical operation
// (e.g. a full scheduling attempt), not per map access, so that
// read-then-mutate sequences (quota checks, resource accounting,
// preemption planning) are atomic.
package clusterstate

import "sync"

// State is the cluster's authoritative in-memory state.
type State struct {
	mu sync.Mutex

	Nodes          map[string]*Node
	Pods           map[string]*Pod
	Packs          map[string]*Pack
	Namespaces     map[string]*Namespace
	PriorityClasses map[string]*PriorityClass

	// nodeNames and packVersions are secondary indexes maintained alongside
	// the primary ID-keyed maps to enforce the uniqueness invariants in
	// spec.md §3 (Node.name cluster-unique; Pack (name, version) unique)
	// without a linear scan on every write.
	nodeNamesToID    map[string]string
	packNameVersions map[string]string // "name@version" -> pack ID
}

// New creates an empty cluster State.
func New() *State {
	return &State{
		Nodes:            make(map[string]*Node),
		Pods:             make(map[string]*Pod),
		Packs:            make(map[string]*Pack),
		Namespaces:       make(map[string]*Namespace),
		PriorityClasses:  make(map[string]*PriorityClass),
		nodeNamesToID:    make(map[string]string),
		packNameVersions: make(map[string]string),
	}
}

// Lock acquires the state mutex. Callers must Unlock before returning.
func (s *State) Lock() { s.mu.Lock() }

// Unlock releases the state mutex.
func (s *State) Unlock() { s.mu.Unlock() }

// NodeIDByName returns the node ID registered under name, if any. Callers
// must hold the lock.
func (s *State) NodeIDByName(name string) (string, bool) {
	id, ok := s.nodeNamesToID[name]
	return id, ok
}

// IndexNodeName records the (name -> id) mapping. Callers must hold the lock.
func (s *State) IndexNodeName(name, id string) {
	s.nodeNamesToID[name] = id
}

// UnindexNodeName removes a (name -> id) mapping. Callers must hold the lock.
func (s *State) UnindexNodeName(name string) {
	delete(s.nodeNamesToID, name)
}

// PackKey builds the (name, version) composite key used for uniqueness checks.
func PackKey(name, version string) string {
	return name + "@" + version
}

// PackIDByNameVersion returns the pack ID registered under (name, version).
// Callers must hold the lock.
func (s *State) PackIDByNameVersion(name, version string) (string, bool) {
	id, ok := s.packNameVersions[PackKey(name, version)]
	return id, ok
}

// IndexPackVersion records the (name, version -> id) mapping. Callers must
// hold the lock.
func (s *State) IndexPackVersion(name, version, id string) {
	s.packNameVersions[PackKey(name, version)] = id
}

// DeindexPackVersion removes a (name, version -> id) mapping. Callers must
// hold the lock.
func (s *State) DeindexPackVersion(name, version string) {
	delete(s.packNameVersions, PackKey(name, version))
}
