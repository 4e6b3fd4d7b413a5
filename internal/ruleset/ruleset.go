// Package ruleset holds the lexical pattern groups and weights used to score
// violation text. A Ruleset is validated and compiled once by New and is
// read-only afterwards, so one value can be shared by any number of workers.
package ruleset

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// GroupName identifies a pattern group.
type GroupName string

const (
	Broad            GroupName = "broad"
	LowExplicit      GroupName = "low_explicit"
	VisibilityHazard GroupName = "visibility_hazard"
	Egress           GroupName = "egress"
	Electrical       GroupName = "electrical"

	// Citation groups are matched against the standard/citation code, not
	// the narrative text.
	CitationEgress          GroupName = "citation_egress"
	CitationConstruction    GroupName = "citation_construction"
	CitationGeneralIndustry GroupName = "citation_general_industry"
)

// AllGroups returns every group name in display order.
func AllGroups() []GroupName {
	return []GroupName{
		Broad,
		LowExplicit,
		VisibilityHazard,
		Egress,
		Electrical,
		CitationEgress,
		CitationConstruction,
		CitationGeneralIndustry,
	}
}

// Weights are the per-signal score contributions. Electrical is negative in
// the default set.
type Weights struct {
	Broad            int `json:"broad"`
	LowExplicit      int `json:"low_explicit"`
	VisibilityHazard int `json:"visibility_hazard"`
	Egress           int `json:"egress"`
	Electrical       int `json:"electrical"`
}

// Spec is the uncompiled form of a Ruleset.
type Spec struct {
	Groups  map[GroupName][]string
	Weights Weights
}

// Error reports a group that failed validation.
type Error struct {
	Group   GroupName
	Pattern string
	Err     error
}

func (e *Error) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("ruleset group %q: pattern %q: %v", e.Group, e.Pattern, e.Err)
	}
	return fmt.Sprintf("ruleset group %q: %v", e.Group, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Group is a compiled, case-insensitive disjunction of patterns.
type Group struct {
	name     GroupName
	patterns []string
	re       *regexp.Regexp
}

// Name returns the group name.
func (g *Group) Name() GroupName { return g.name }

// Patterns returns a copy of the source patterns.
func (g *Group) Patterns() []string {
	out := make([]string, len(g.patterns))
	copy(out, g.patterns)
	return out
}

// MatchString reports whether any pattern of the group occurs in s.
func (g *Group) MatchString(s string) bool {
	if s == "" {
		return false
	}
	return g.re.MatchString(s)
}

// Ruleset is an immutable bundle of compiled groups and weights.
type Ruleset struct {
	groups  map[GroupName]*Group
	weights Weights
}

// New validates spec and compiles every group. Each group in AllGroups must
// be present and non-empty, and every pattern must compile on its own.
func New(spec Spec) (*Ruleset, error) {
	rs := &Ruleset{
		groups:  make(map[GroupName]*Group, len(spec.Groups)),
		weights: spec.Weights,
	}

	known := make(map[GroupName]bool)
	for _, name := range AllGroups() {
		known[name] = true
	}
	var unknown []string
	for name := range spec.Groups {
		if !known[name] {
			unknown = append(unknown, string(name))
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &Error{Group: GroupName(unknown[0]), Err: fmt.Errorf("unknown group")}
	}

	for _, name := range AllGroups() {
		g, err := compileGroup(name, spec.Groups[name])
		if err != nil {
			return nil, err
		}
		rs.groups[name] = g
	}
	return rs, nil
}

// MustNew is like New but panics on error. Only used for built-in tables.
func MustNew(spec Spec) *Ruleset {
	rs, err := New(spec)
	if err != nil {
		panic(err)
	}
	return rs
}

func compileGroup(name GroupName, patterns []string) (*Group, error) {
	if len(patterns) == 0 {
		return nil, &Error{Group: name, Err: fmt.Errorf("group has no patterns")}
	}
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			return nil, &Error{Group: name, Pattern: p, Err: fmt.Errorf("empty pattern")}
		}
		// Compile each pattern alone so the error names the culprit.
		if _, err := regexp.Compile(p); err != nil {
			return nil, &Error{Group: name, Pattern: p, Err: err}
		}
	}
	re, err := regexp.Compile("(?i)(?:" + strings.Join(patterns, "|") + ")")
	if err != nil {
		return nil, &Error{Group: name, Err: err}
	}
	return &Group{
		name:     name,
		patterns: append([]string(nil), patterns...),
		re:       re,
	}, nil
}

// Group returns the named group, or nil if the name is unknown.
func (r *Ruleset) Group(name GroupName) *Group {
	return r.groups[name]
}

// Weights returns the scoring weights.
func (r *Ruleset) Weights() Weights {
	return r.weights
}

// Spec returns the uncompiled form, suitable for printing or re-encoding.
func (r *Ruleset) Spec() Spec {
	s := Spec{
		Groups:  make(map[GroupName][]string, len(r.groups)),
		Weights: r.weights,
	}
	for name, g := range r.groups {
		s.Groups[name] = g.Patterns()
	}
	return s
}

// Part is the coarse regulatory part a citation falls under.
type Part string

const (
	PartConstruction    Part = "construction"
	PartGeneralIndustry Part = "general_industry"
	PartUnknown         Part = "unknown"
)

// Part classifies a standard/citation code as construction (1926) or
// general industry (1910). Construction is checked first.
func (r *Ruleset) Part(citation string) Part {
	switch {
	case r.groups[CitationConstruction].MatchString(citation):
		return PartConstruction
	case r.groups[CitationGeneralIndustry].MatchString(citation):
		return PartGeneralIndustry
	default:
		return PartUnknown
	}
}
