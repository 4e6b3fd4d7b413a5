// Package signal extracts boolean lexical signals from normalized text.
// It makes no classification decisions.
package signal

import "github.com/abhisek/luxscan/internal/ruleset"

// Flags is the fixed set of signals computed for one record.
type Flags struct {
	Broad            bool
	LowExplicit      bool
	VisibilityHazard bool
	Egress           bool
	Electrical       bool
}

// Matcher evaluates text against a Ruleset. It holds no mutable state and is
// safe for concurrent use.
type Matcher struct {
	broad            *ruleset.Group
	lowExplicit      *ruleset.Group
	visibilityHazard *ruleset.Group
	egress           *ruleset.Group
	electrical       *ruleset.Group
	citationEgress   *ruleset.Group
}

// NewMatcher binds a Matcher to rs.
func NewMatcher(rs *ruleset.Ruleset) *Matcher {
	return &Matcher{
		broad:            rs.Group(ruleset.Broad),
		lowExplicit:      rs.Group(ruleset.LowExplicit),
		visibilityHazard: rs.Group(ruleset.VisibilityHazard),
		egress:           rs.Group(ruleset.Egress),
		electrical:       rs.Group(ruleset.Electrical),
		citationEgress:   rs.Group(ruleset.CitationEgress),
	}
}

// Match computes the flags for text. Egress is also raised when the
// citation carries an exit-route or emergency-lighting standard.
func (m *Matcher) Match(text, citation string) Flags {
	return Flags{
		Broad:            m.broad.MatchString(text),
		LowExplicit:      m.lowExplicit.MatchString(text),
		VisibilityHazard: m.visibilityHazard.MatchString(text),
		Egress:           m.egress.MatchString(text) || m.citationEgress.MatchString(citation),
		Electrical:       m.electrical.MatchString(text),
	}
}
