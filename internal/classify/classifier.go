// Package classify turns signal flags into a confidence score and exactly one
// tag, and selects the records worth keeping.
package classify

import (
	"github.com/abhisek/luxscan/internal/ruleset"
	"github.com/abhisek/luxscan/internal/signal"
)

// MinHazardScore is the score floor for the visibility/egress rule.
const MinHazardScore = 2

// Score sums the weight of every raised flag.
func Score(f signal.Flags, w ruleset.Weights) int {
	score := 0
	if f.Broad {
		score += w.Broad
	}
	if f.LowExplicit {
		score += w.LowExplicit
	}
	if f.VisibilityHazard {
		score += w.VisibilityHazard
	}
	if f.Egress {
		score += w.Egress
	}
	if f.Electrical {
		score += w.Electrical
	}
	return score
}

// rule is one guarded row of the decision table.
type rule struct {
	name  string
	when  func(f signal.Flags, score int) bool
	label func(f signal.Flags) Tag
}

func fixed(t Tag) func(signal.Flags) Tag {
	return func(signal.Flags) Tag { return t }
}

// electricalOnly holds when electrical vocabulary is the only specific signal.
func electricalOnly(f signal.Flags) bool {
	return f.Electrical && !(f.LowExplicit || f.VisibilityHazard || f.Egress)
}

// rules are evaluated top to bottom; the first guard that holds wins.
// Explicit insufficiency outranks everything, including electrical words.
// When visibility and egress signals both fire, visibility wins.
var rules = []rule{
	{
		name:  "low-explicit",
		when:  func(f signal.Flags, _ int) bool { return f.LowExplicit },
		label: fixed(TagLowLightExplicit),
	},
	{
		name: "visibility-or-egress",
		when: func(f signal.Flags, score int) bool {
			return (f.VisibilityHazard || f.Egress) && f.Broad &&
				score >= MinHazardScore && !electricalOnly(f)
		},
		label: func(f signal.Flags) Tag {
			if f.VisibilityHazard {
				return TagLowLightVisibilityHazard
			}
			return TagEgressEmergencyLighting
		},
	},
	{
		name:  "electrical-only",
		when:  func(f signal.Flags, _ int) bool { return f.Broad && electricalOnly(f) },
		label: fixed(TagElectricalFixtureOnly),
	},
	{
		name:  "fallback",
		when:  func(signal.Flags, int) bool { return true },
		label: fixed(TagUnclearOrOther),
	},
}

// Classify scores f and assigns a tag. Every input maps to exactly one tag.
func Classify(f signal.Flags, w ruleset.Weights) Result {
	score := Score(f, w)
	for _, r := range rules {
		if r.when(f, score) {
			return Result{Score: score, Tag: r.label(f), Rule: r.name}
		}
	}
	// Unreachable: the fallback rule always holds.
	return Result{Score: score, Tag: TagUnclearOrOther, Rule: "fallback"}
}

// RuleNames returns the decision table rows in evaluation order.
func RuleNames() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}
