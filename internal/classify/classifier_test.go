package classify

import (
	"testing"

	"github.com/abhisek/luxscan/internal/record"
	"github.com/abhisek/luxscan/internal/ruleset"
	"github.com/abhisek/luxscan/internal/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allFlags enumerates every combination of the five signals.
func allFlags() []signal.Flags {
	out := make([]signal.Flags, 0, 32)
	for i := 0; i < 32; i++ {
		out = append(out, signal.Flags{
			Broad:            i&1 != 0,
			LowExplicit:      i&2 != 0,
			VisibilityHazard: i&4 != 0,
			Egress:           i&8 != 0,
			Electrical:       i&16 != 0,
		})
	}
	return out
}

func TestClassify_Total(t *testing.T) {
	w := ruleset.DefaultWeights()
	for _, f := range allFlags() {
		res := Classify(f, w)
		assert.True(t, res.Tag.Valid(), "flags %+v gave tag %q", f, res.Tag)
		assert.NotEmpty(t, res.Rule)
	}
}

func TestClassify_LowExplicitAlwaysWins(t *testing.T) {
	w := ruleset.DefaultWeights()
	for _, f := range allFlags() {
		if !f.LowExplicit {
			continue
		}
		res := Classify(f, w)
		assert.Equal(t, TagLowLightExplicit, res.Tag, "flags %+v", f)
		assert.Equal(t, "low-explicit", res.Rule)
	}
}

func TestClassify_Pure(t *testing.T) {
	w := ruleset.DefaultWeights()
	for _, f := range allFlags() {
		assert.Equal(t, Classify(f, w), Classify(f, w))
	}
}

func TestScore(t *testing.T) {
	w := ruleset.DefaultWeights()
	tests := []struct {
		name  string
		flags signal.Flags
		want  int
	}{
		{"none", signal.Flags{}, 0},
		{"broad", signal.Flags{Broad: true}, 1},
		{"electrical alone is negative", signal.Flags{Electrical: true}, -2},
		{"all", signal.Flags{Broad: true, LowExplicit: true, VisibilityHazard: true, Egress: true, Electrical: true}, 7},
		{"broad+low+egress", signal.Flags{Broad: true, LowExplicit: true, Egress: true}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.flags, w))
		})
	}
}

func TestClassify_Table(t *testing.T) {
	w := ruleset.DefaultWeights()
	tests := []struct {
		name      string
		flags     signal.Flags
		wantTag   Tag
		wantScore int
	}{
		{
			name:      "explicit with electrical stays explicit",
			flags:     signal.Flags{Broad: true, LowExplicit: true, Electrical: true},
			wantTag:   TagLowLightExplicit,
			wantScore: 3,
		},
		{
			name:      "visibility beats egress",
			flags:     signal.Flags{Broad: true, VisibilityHazard: true, Egress: true},
			wantTag:   TagLowLightVisibilityHazard,
			wantScore: 5,
		},
		{
			name:      "egress only",
			flags:     signal.Flags{Broad: true, Egress: true},
			wantTag:   TagEgressEmergencyLighting,
			wantScore: 3,
		},
		{
			name:      "egress with electrical falls below floor",
			flags:     signal.Flags{Broad: true, Egress: true, Electrical: true},
			wantTag:   TagUnclearOrOther,
			wantScore: 1,
		},
		{
			name:      "visibility without broad",
			flags:     signal.Flags{VisibilityHazard: true},
			wantTag:   TagUnclearOrOther,
			wantScore: 2,
		},
		{
			name:      "electrical with broad only",
			flags:     signal.Flags{Broad: true, Electrical: true},
			wantTag:   TagElectricalFixtureOnly,
			wantScore: -1,
		},
		{
			name:      "electrical without broad",
			flags:     signal.Flags{Electrical: true},
			wantTag:   TagUnclearOrOther,
			wantScore: -2,
		},
		{
			name:      "broad only",
			flags:     signal.Flags{Broad: true},
			wantTag:   TagUnclearOrOther,
			wantScore: 1,
		},
		{
			name:      "nothing",
			flags:     signal.Flags{},
			wantTag:   TagUnclearOrOther,
			wantScore: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify(tt.flags, w)
			assert.Equal(t, tt.wantTag, res.Tag)
			assert.Equal(t, tt.wantScore, res.Score)
		})
	}
}

func TestClassify_ScoreFloorUsesWeights(t *testing.T) {
	w := ruleset.DefaultWeights()
	w.Egress = 0
	res := Classify(signal.Flags{Broad: true, Egress: true}, w)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, TagUnclearOrOther, res.Tag, "score below floor must not tag egress")
}

func TestClassify_FromText(t *testing.T) {
	rs := ruleset.Default()
	m := signal.NewMatcher(rs)
	tests := []struct {
		text      string
		wantTag   Tag
		wantScore int
	}{
		{"insufficient illumination in the stairwell", TagLowLightExplicit, 7},
		{"employee slipped on wet floor near exit, unable to see due to low light", TagLowLightVisibilityHazard, 5},
		{"loose wiring near junction box, fixture not grounded", TagUnclearOrOther, -2},
		{"burned out lamp in the lighting panel", TagElectricalFixtureOnly, -1},
		{"", TagUnclearOrOther, 0},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res := Classify(m.Match(tt.text, ""), rs.Weights())
			assert.Equal(t, tt.wantTag, res.Tag)
			assert.Equal(t, tt.wantScore, res.Score)
		})
	}
}

func TestRuleNames_Order(t *testing.T) {
	assert.Equal(t, []string{"low-explicit", "visibility-or-egress", "electrical-only", "fallback"}, RuleNames())
}

func TestParseTag(t *testing.T) {
	for _, tag := range AllTags() {
		got, err := ParseTag(string(tag))
		require.NoError(t, err)
		assert.Equal(t, tag, got)
	}
	_, err := ParseTag("dark_and_stormy")
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	mk := func(id string, tag Tag, score int) Record {
		return Record{Raw: record.FromMap([]string{"id"}, map[string]string{"id": id}), Tag: tag, Score: score}
	}
	in := []Record{
		mk("1", TagLowLightExplicit, 5),
		mk("2", TagElectricalFixtureOnly, 3),
		mk("3", TagEgressEmergencyLighting, 1),
		mk("4", TagEgressEmergencyLighting, 2),
		mk("5", TagLowLightVisibilityHazard, 4),
	}

	out := Filter(in, DefaultKeepTags(), 2)
	require.Len(t, out, 3)
	var ids []string
	for _, r := range out {
		id, _ := r.Raw.Get("id")
		ids = append(ids, id)
		assert.GreaterOrEqual(t, r.Score, 2)
		assert.Contains(t, DefaultKeepTags(), r.Tag)
	}
	assert.Equal(t, []string{"1", "4", "5"}, ids)
	assert.Len(t, in, 5, "input untouched")

	assert.Empty(t, Filter(in, nil, 0))
	assert.Len(t, Filter(in, AllTags(), -10), 5)
}
