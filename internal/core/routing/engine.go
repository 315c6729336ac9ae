package routing

import (
	"regexp"

	"github.com/metrodocs/docflow/internal/core/domain"
)

// Snapshot carries the document fields routing works with. Predicates only
// inspect Title, Category, Department and Tags; Priority is carried through
// so a decision can fall back to the current value.
type Snapshot struct {
	Title      string
	Category   string
	Department string
	Tags       []string
	Priority   domain.Priority
}

// Rule maps a predicate over a document snapshot to an optional department,
// role and priority override. Zero-value targets mean "keep the document's
// current value".
type Rule struct {
	Name         string
	TitlePattern *regexp.Regexp
	Category     string
	TagsAny      []string
	ToDepartment string
	ToRole       string
	ToPriority   domain.Priority
}

// Decision is the routing outcome. Role is empty unless a matched rule set one.
type Decision struct {
	Department string
	Role       string
	Priority   domain.Priority
	RuleName   string
}

func (r Rule) matches(snap Snapshot) bool {
	if r.TitlePattern != nil && r.TitlePattern.MatchString(snap.Title) {
		return true
	}
	if r.Category != "" && r.Category == snap.Category {
		return true
	}
	for _, want := range r.TagsAny {
		for _, tag := range snap.Tags {
			if tag == want {
				return true
			}
		}
	}
	return false
}

// Route evaluates rules in declaration order and returns the first match's
// outcome. No match, or an empty rule list, yields the identity mapping: the
// snapshot's current department and priority, and no role. Route performs no
// I/O and holds no state; for a fixed rule list and snapshot the result is
// always identical.
func Route(snap Snapshot, rules []Rule) Decision {
	for _, rule := range rules {
		if !rule.matches(snap) {
			continue
		}
		decision := Decision{
			Department: snap.Department,
			Role:       rule.ToRole,
			Priority:   snap.Priority,
			RuleName:   rule.Name,
		}
		if rule.ToDepartment != "" {
			decision.Department = rule.ToDepartment
		}
		if rule.ToPriority != "" {
			decision.Priority = rule.ToPriority
		}
		return decision
	}
	return Decision{Department: snap.Department, Priority: snap.Priority}
}
