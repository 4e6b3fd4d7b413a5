package classify

import (
	"fmt"

	"github.com/abhisek/luxscan/internal/record"
	"github.com/abhisek/luxscan/internal/ruleset"
	"github.com/abhisek/luxscan/internal/signal"
)

// Tag is the single category assigned to a classified record.
type Tag string

const (
	TagLowLightExplicit         Tag = "low_light_explicit"
	TagLowLightVisibilityHazard Tag = "low_light_visibility_hazard"
	TagEgressEmergencyLighting  Tag = "egress_emergency_lighting"
	TagElectricalFixtureOnly    Tag = "electrical_fixture_only"
	TagUnclearOrOther           Tag = "unclear_or_other"
)

// AllTags returns the five tags in precedence order.
func AllTags() []Tag {
	return []Tag{
		TagLowLightExplicit,
		TagLowLightVisibilityHazard,
		TagEgressEmergencyLighting,
		TagElectricalFixtureOnly,
		TagUnclearOrOther,
	}
}

// DefaultKeepTags are the tags retained by the filter unless configured
// otherwise.
func DefaultKeepTags() []Tag {
	return []Tag{
		TagLowLightExplicit,
		TagLowLightVisibilityHazard,
		TagEgressEmergencyLighting,
	}
}

// Valid reports whether t is one of the five tags.
func (t Tag) Valid() bool {
	for _, known := range AllTags() {
		if t == known {
			return true
		}
	}
	return false
}

// ParseTag converts s to a Tag, rejecting unknown names.
func ParseTag(s string) (Tag, error) {
	t := Tag(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown tag %q", s)
	}
	return t, nil
}

// Result is the outcome of classifying one set of flags.
type Result struct {
	Score int
	Tag   Tag
	Rule  string // name of the rule that assigned Tag
}

// Record is a raw row with everything derived from it.
type Record struct {
	Raw      record.Raw
	Text     string
	Citation string
	Flags    signal.Flags
	Score    int
	Tag      Tag
	Part     ruleset.Part

	// Year is the four-digit year resolved from the date column, valid only
	// when HasYear is true.
	Year    int
	HasYear bool
}
