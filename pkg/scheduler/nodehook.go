package scheduler

// FailPodsOnNode fails every non-terminal pod on nodeID with reason,
// releasing their resources. Wired as NodeManager's onNodeUnhealthy hook
// by the composition root (spec.md §4.5.6).
func (s *Scheduler) FailPodsOnNode(nodeID, reason string) int {
	s.state.Lock()
	defer s.state.Unlock()

	count := 0
	for _, p := range podsOnNode(s.state, nodeID) {
		if p.Status.IsTerminal() {
			continue
		}
		s.failLocked(p, reason)
		count++
	}
	return count
}
