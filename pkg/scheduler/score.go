package scheduler

import (
	"math/rand/v2"

	"github.com/wisbric/orbit/pkg/clusterstate"
	"github.com/wisbric/orbit/pkg/node"
)

// scoreCandidate computes a candidate Node's placement score, per
// spec.md §4.5.2's score step. Caller must hold the state lock (reads
// state.Pods to count pods already on the node for affinity/policy terms).
func scoreCandidate(state *clusterstate.State, pod *clusterstate.Pod, n *clusterstate.Node, policy Policy) int {
	score := 100
	podsOnN := podsOnNode(state, n.ID)

	score += policyScore(policy, n, len(podsOnN))
	score -= 50 * untoleratedPreferNoSchedule(n.Taints, pod.Tolerations)
	score += preferredAffinityScore(pod.Scheduling.NodeAffinity.Preferred, n.Labels)
	score += podAffinityScore(pod.Scheduling.PodAffinity, podsOnN)
	score -= podAffinityScore(pod.Scheduling.PodAntiAffinity, podsOnN)

	return score
}

func policyScore(policy Policy, n *clusterstate.Node, podsOnNode int) int {
	switch policy {
	case PolicyBinpack:
		return 5 * podsOnNode
	case PolicyLeastLoaded:
		avail := node.AvailableUnsafe(n)
		return fractionScore(avail.CPU, n.Allocatable.CPU) + fractionScore(avail.Memory, n.Allocatable.Memory)
	case PolicyRandom:
		return rand.IntN(20)
	default: // spread
		return -10 * podsOnNode
	}
}

func fractionScore(available, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(50 * float64(available) / float64(total))
}

func preferredAffinityScore(terms []clusterstate.PreferredSchedulingTerm, labels map[string]string) int {
	total := 0
	for _, term := range terms {
		if matchesTerm(term.Preference, labels) {
			total += term.Weight
		}
	}
	return total
}

func podAffinityScore(terms []clusterstate.WeightedPodAffinityTerm, podsOnNode []*clusterstate.Pod) int {
	total := 0
	for _, term := range terms {
		for _, p := range podsOnNode {
			if matchesLabelSelector(term.LabelSelector, p.Labels) {
				total += term.Weight
				break
			}
		}
	}
	return total
}
