package export

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/abhisek/luxscan/internal/aggregate"
	"github.com/abhisek/luxscan/internal/classify"
	"github.com/abhisek/luxscan/internal/record"
	"github.com/abhisek/luxscan/internal/ruleset"
	"github.com/abhisek/luxscan/internal/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() (*record.Header, []classify.Record) {
	h := record.NewHeader("activity_nr", "narrative")
	return h, []classify.Record{
		{
			Raw:     record.New(h, []string{"101", "too dark, near exit"}),
			Flags:   signal.Flags{Broad: true, LowExplicit: true, Egress: true},
			Score:   7,
			Tag:     classify.TagLowLightExplicit,
			Part:    ruleset.PartConstruction,
			Year:    2019,
			HasYear: true,
		},
		{
			Raw:   record.New(h, []string{"102", ""}),
			Score: 0,
			Tag:   classify.TagUnclearOrOther,
			Part:  ruleset.PartUnknown,
		},
	}
}

func TestWriteFiltered(t *testing.T) {
	h, records := testRecords()
	var buf bytes.Buffer
	require.NoError(t, WriteFiltered(&buf, h, records))

	want := "activity_nr,narrative,tag,score,broad_kw,low_explicit_kw,visibility_hazard_kw,egress_kw,electrical_kw,year,cfr_part\n" +
		"101,\"too dark, near exit\",low_light_explicit,7,true,true,false,true,false,2019,construction\n" +
		"102,,unclear_or_other,0,false,false,false,false,false,,unknown\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteFiltered_EmptyKeepsHeader(t *testing.T) {
	h, _ := testRecords()
	var buf bytes.Buffer
	require.NoError(t, WriteFiltered(&buf, h, nil))
	assert.Equal(t, "activity_nr,narrative,tag,score,broad_kw,low_explicit_kw,visibility_hazard_kw,egress_kw,electrical_kw,year,cfr_part\n", buf.String())
}

func TestWriteDebugHead(t *testing.T) {
	h, records := testRecords()
	var buf bytes.Buffer
	require.NoError(t, WriteDebugHead(&buf, h, records))
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
	assert.Contains(t, buf.String(), "101,")
	assert.NotContains(t, buf.String(), "102,")
}

func TestWriteSummaries(t *testing.T) {
	var tags bytes.Buffer
	require.NoError(t, WriteTagSummary(&tags, []aggregate.TagCount{
		{Tag: classify.TagLowLightExplicit, N: 3},
		{Tag: classify.TagUnclearOrOther, N: 1},
	}))
	assert.Equal(t, "tag,n_records\nlow_light_explicit,3\nunclear_or_other,1\n", tags.String())

	var years bytes.Buffer
	require.NoError(t, WriteYearSummary(&years, []aggregate.YearTagCount{
		{Year: 2019, Tag: classify.TagLowLightExplicit, N: 2},
	}))
	assert.Equal(t, "year,tag,n_records\n2019,low_light_explicit,2\n", years.String())

	var empty bytes.Buffer
	require.NoError(t, WriteYearSummary(&empty, nil))
	assert.Equal(t, "year,tag,n_records\n", empty.String())
}

func TestWriteBatch(t *testing.T) {
	h := record.NewHeader("activity_nr", "naics_code")
	b := record.Batch{Header: h, Rows: []record.Raw{
		record.New(h, []string{"1", "6111"}),
		record.New(h, []string{"2", ""}),
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteBatch(&buf, b, Column{
		Name: "n",
		Value: func(i int, r record.Raw) string {
			v, _ := r.Get("naics_code")
			return v + "#" + string(rune('a'+i))
		},
	}))
	assert.Equal(t, "activity_nr,naics_code,n\n1,6111,6111#a\n2,,#b\n", buf.String())
	assert.Equal(t, []string{"activity_nr", "naics_code"}, h.Names(), "header untouched")
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, []string{"sector", "n_violations"}, [][]string{{"Education", "4"}}))
	assert.Equal(t, "sector,n_violations\nEducation,4\n", buf.String())
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	p := PathsIn(dir)
	assert.Equal(t, filepath.Join(dir, "summary_by_tag.csv"), p.TagSummary)

	require.NoError(t, WriteFile(p.TagSummary, func(w io.Writer) error {
		return WriteTagSummary(w, nil)
	}))
	data, err := os.ReadFile(p.TagSummary)
	require.NoError(t, err)
	assert.Equal(t, "tag,n_records\n", string(data))

	boom := errors.New("boom")
	err = WriteFile(p.Filtered, func(io.Writer) error { return boom })
	assert.ErrorIs(t, err, boom)

	err = WriteFile(filepath.Join(dir, "missing", "x.csv"), func(io.Writer) error { return nil })
	assert.Error(t, err)
}
