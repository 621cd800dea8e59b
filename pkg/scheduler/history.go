package scheduler

import (
	"time"

	"github.com/wisbric/orbit/pkg/clusterstate"
)

// appendHistory appends an audit entry to a Pod's history. Caller must
// hold the state lock. History is append-only and totally ordered by
// creation (spec.md §8.4).
func appendHistory(p *clusterstate.Pod, entry clusterstate.PodHistoryEntry) {
	entry.Timestamp = time.Now()
	p.History = append(p.History, entry)
}

// actionForStatus derives the history action recorded for a transition to
// target, per spec.md §4.5.4's "updateStatus derives a history action from
// the target status".
func actionForStatus(target clusterstate.PodStatus) clusterstate.PodHistoryAction {
	switch target {
	case clusterstate.PodScheduled:
		return clusterstate.HistoryScheduled
	case clusterstate.PodRunning:
		return clusterstate.HistoryStarted
	case clusterstate.PodStopped:
		return clusterstate.HistoryStopped
	case clusterstate.PodFailed:
		return clusterstate.HistoryFailed
	case clusterstate.PodEvicted:
		return clusterstate.HistoryEvicted
	default:
		return clusterstate.HistoryUpdated
	}
}
