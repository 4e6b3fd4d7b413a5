package signal

import (
	"testing"

	"github.com/abhisek/luxscan/internal/ruleset"
	"github.com/stretchr/testify/assert"
)

func TestMatcher_Match(t *testing.T) {
	m := NewMatcher(ruleset.Default())

	tests := []struct {
		name     string
		text     string
		citation string
		want     Flags
	}{
		{
			name: "explicit insufficiency",
			text: "insufficient illumination in the stairwell",
			want: Flags{Broad: true, LowExplicit: true, Egress: true},
		},
		{
			name: "visibility hazard near exit",
			text: "employee slipped on wet floor near exit, unable to see due to low light",
			want: Flags{Broad: true, VisibilityHazard: true, Egress: true},
		},
		{
			name: "electrical only",
			text: "loose wiring near junction box, fixture not grounded",
			want: Flags{Electrical: true},
		},
		{
			name:     "egress from citation only",
			text:     "lighting was not provided",
			citation: "1910.37(b)(1)",
			want:     Flags{Broad: true, Egress: true},
		},
		{
			name:     "citation does not feed text groups",
			text:     "",
			citation: "too dark 1926.34",
			want:     Flags{Egress: true},
		},
		{
			name: "empty",
			want: Flags{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(tt.text, tt.citation))
		})
	}
}

func TestMatcher_Deterministic(t *testing.T) {
	m := NewMatcher(ruleset.Default())
	text := "dark corridor with debris and an exposed outlet"
	first := m.Match(text, "")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, m.Match(text, ""))
	}
}
