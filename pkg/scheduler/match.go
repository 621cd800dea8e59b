package scheduler

import "github.com/wisbric/orbit/pkg/clusterstate"

// preferredRuntime derives the runtime type a pod should prefer given its
// pack's runtimeTag, per spec.md §4.5.2: node/browser packs require an
// exact match; universal packs prefer node if a schedulable node of that
// type exists, else browser. Caller must hold the state lock.
func preferredRuntime(state *clusterstate.State, tag clusterstate.RuntimeType) clusterstate.RuntimeType {
	if tag != clusterstate.RuntimeUniversal {
		return tag
	}
	for _, n := range state.Nodes {
		if n.IsSchedulable() && n.RuntimeType == clusterstate.RuntimeNode {
			return clusterstate.RuntimeNode
		}
	}
	return clusterstate.RuntimeBrowser
}

// runtimeCompatible reports whether a node satisfies the preferred runtime.
func runtimeCompatible(n *clusterstate.Node, preferred clusterstate.RuntimeType) bool {
	return n.RuntimeType == preferred
}

// tolerates reports whether tolerations let a pod tolerate every
// NoSchedule/NoExecute taint on a node. PreferNoSchedule is never checked
// here — it is a score penalty, not a filter (spec.md §4.5.2 step 3).
func tolerates(taints []clusterstate.Taint, tolerations []clusterstate.Toleration) bool {
	for _, t := range taints {
		if t.Effect != clusterstate.TaintNoSchedule && t.Effect != clusterstate.TaintNoExecute {
			continue
		}
		if !tolerationMatches(t, tolerations) {
			return false
		}
	}
	return true
}

func tolerationMatches(t clusterstate.Taint, tolerations []clusterstate.Toleration) bool {
	for _, tol := range tolerations {
		if tol.Key != t.Key {
			continue
		}
		if tol.Effect != "" && tol.Effect != t.Effect {
			continue
		}
		switch tol.Operator {
		case clusterstate.TolerationExists:
			return true
		case clusterstate.TolerationEqual:
			if tol.Value == t.Value {
				return true
			}
		}
	}
	return false
}

// untoleratedPreferNoSchedule counts PreferNoSchedule taints the pod does
// not tolerate, for the score-step penalty.
func untoleratedPreferNoSchedule(taints []clusterstate.Taint, tolerations []clusterstate.Toleration) int {
	count := 0
	for _, t := range taints {
		if t.Effect != clusterstate.TaintPreferNoSchedule {
			continue
		}
		if !tolerationMatches(t, tolerations) {
			count++
		}
	}
	return count
}

// matchesNodeSelector reports whether every key/value in selector is
// present in labels with an equal value.
func matchesNodeSelector(selector, labels map[string]string) bool {
	for k, v := range selector {
		if labels[k] != v {
			return false
		}
	}
	return true
}

// matchesRequiredAffinity implements spec.md §4.5.2 step 6: there exists
// at least one term such that every match expression in it matches
// (AND-within-term, OR-across-terms). An empty Required list always
// matches (no required affinity configured).
func matchesRequiredAffinity(required []clusterstate.NodeSelectorTerm, labels map[string]string) bool {
	if len(required) == 0 {
		return true
	}
	for _, term := range required {
		if matchesTerm(term, labels) {
			return true
		}
	}
	return false
}

func matchesTerm(term clusterstate.NodeSelectorTerm, labels map[string]string) bool {
	for _, expr := range term.MatchExpressions {
		if !matchesExpression(expr, labels) {
			return false
		}
	}
	return true
}

func matchesExpression(expr clusterstate.NodeSelectorRequirement, labels map[string]string) bool {
	value, present := labels[expr.Key]
	switch expr.Operator {
	case clusterstate.NodeSelectorIn:
		return present && containsString(expr.Values, value)
	case clusterstate.NodeSelectorNotIn:
		return !present || !containsString(expr.Values, value)
	case clusterstate.NodeSelectorExists:
		return present
	case clusterstate.NodeSelectorDoesNotExist:
		return !present
	case clusterstate.NodeSelectorGt:
		return present && numericCompare(value, firstOrEmpty(expr.Values)) > 0
	case clusterstate.NodeSelectorLt:
		return present && numericCompare(value, firstOrEmpty(expr.Values)) < 0
	default:
		return false
	}
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// matchesLabelSelector reports whether a pod's labels satisfy a label
// selector (exact-match on every key in MatchLabels).
func matchesLabelSelector(sel clusterstate.LabelSelector, labels map[string]string) bool {
	for k, v := range sel.MatchLabels {
		if labels[k] != v {
			return false
		}
	}
	return true
}
