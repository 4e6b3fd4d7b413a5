package standards

import (
	"errors"
	"testing"

	"github.com/abhisek/luxscan/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var violationHeader = record.NewHeader("activity_nr", "standard", "initial_penalty", "issuance_date")

func violations() record.Batch {
	row := func(vals ...string) record.Raw { return record.New(violationHeader, vals) }
	return record.Batch{Header: violationHeader, Rows: []record.Raw{
		row("1", "19260056 A", "1500", "2019-03-01"),
		row("2", "19100037 B01", "250.5", "2019-11-20"),
		row("3", "19100303 G02", "9000", "2019-05-05"),
		row("4", "19260026", "n/a", "2021-01-10"),
		row("5", "19260056", "100", ""),
		row("6", "", "100", "2020-01-01"),
		row("7", "19100037", "", "2018-06-30"),
	}}
}

func TestMatch(t *testing.T) {
	got := Match(violations(), "standard", DefaultPrefixes())
	var ids []string
	for _, r := range got.Rows {
		id, _ := r.Get("activity_nr")
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"1", "2", "4", "5", "7"}, ids)
	assert.Same(t, violationHeader, got.Header)
}

func TestSearch(t *testing.T) {
	res, err := Search(violations(), Options{})
	require.NoError(t, err)

	assert.Equal(t, "initial_penalty", res.Options.PenaltyCol)
	assert.Equal(t, "issuance_date", res.Options.DateCol)
	require.Len(t, res.Violations, 5)

	assert.Equal(t, []YearStat{
		{Year: 2018, Violations: 1, TotalPenalty: 0},
		{Year: 2019, Violations: 2, TotalPenalty: 1750.5},
		{Year: 2021, Violations: 1, TotalPenalty: 0},
	}, res.ByYear)

	assert.Equal(t, "2019", res.YearValue(0))
	assert.Equal(t, "", res.YearValue(3), "missing date")
	assert.Len(t, res.Batch().Rows, 5)

	head, rows := res.Table()
	assert.Equal(t, []string{"year", "n_violations", "total_penalty"}, head)
	assert.Equal(t, []string{"2019", "2", "1750.5"}, rows[1])
	assert.Equal(t, "5 violations over 3 years", res.String())
}

func TestSearch_CustomPrefixes(t *testing.T) {
	res, err := Search(violations(), Options{Prefixes: []string{"19100303"}})
	require.NoError(t, err)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, 9000.0, res.Violations[0].Penalty)
}

func TestSearch_NoStandardColumn(t *testing.T) {
	h := record.NewHeader("activity_nr")
	_, err := Search(record.Batch{Header: h}, Options{})
	assert.True(t, errors.Is(err, ErrNoStandardColumn))

	_, err = Search(record.Batch{}, Options{})
	assert.True(t, errors.Is(err, ErrNoStandardColumn))
}

func TestSearch_NoPenaltyOrDateColumns(t *testing.T) {
	h := record.NewHeader("standard")
	b := record.Batch{Header: h, Rows: []record.Raw{record.New(h, []string{"19260056"})}}
	res, err := Search(b, Options{})
	require.NoError(t, err)
	require.Len(t, res.Violations, 1)
	assert.Zero(t, res.Violations[0].Penalty)
	assert.Empty(t, res.ByYear)
	assert.Equal(t, "1 violations, no usable year information", res.String())
}

func TestPenalty(t *testing.T) {
	h := record.NewHeader("p")
	tests := []struct {
		in   string
		want float64
	}{
		{"1500", 1500},
		{" 12.25 ", 12.25},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Penalty(record.New(h, []string{tt.in}), "p"), tt.in)
	}
	assert.Zero(t, Penalty(record.New(h, []string{"5"}), ""))
}
