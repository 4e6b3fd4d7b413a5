package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaw_GetTreatsEmptyAsAbsent(t *testing.T) {
	h := NewHeader("a", "b", "c")
	r := New(h, []string{"x", ""})

	v, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = r.Get("b")
	assert.False(t, ok, "empty cell should be absent")
	_, ok = r.Get("c")
	assert.False(t, ok, "missing trailing cell should be absent")
	_, ok = r.Get("nope")
	assert.False(t, ok)
}

func TestNewNullable(t *testing.T) {
	s := "hello"
	r := NewNullable(NewHeader("a", "b"), []*string{nil, &s})

	_, ok := r.Get("a")
	assert.False(t, ok)
	v, ok := r.Get("b")
	require.True(t, ok)
	assert.Equal(t, "hello", v)
}

func TestHeader_DuplicatesKeepFirst(t *testing.T) {
	h := NewHeader("a", "b", "a")
	assert.Equal(t, []string{"a", "b"}, h.Names())
	assert.True(t, h.Has("b"))
	assert.False(t, h.Has("c"))
}

func TestZeroRaw(t *testing.T) {
	var r Raw
	_, ok := r.Get("a")
	assert.False(t, ok)
	assert.Nil(t, r.Fields())
}

func TestConcat_UnionsHeaders(t *testing.T) {
	b1 := Batch{Header: NewHeader("id", "text")}
	b1.Rows = []Raw{New(b1.Header, []string{"1", "dark stairway"})}
	b2 := Batch{Header: NewHeader("id", "date")}
	b2.Rows = []Raw{New(b2.Header, []string{"2", "2020-01-01"})}

	out := Concat(b1, b2)
	assert.Equal(t, []string{"id", "text", "date"}, out.Header.Names())
	require.Len(t, out.Rows, 2)

	_, ok := out.Rows[0].Get("date")
	assert.False(t, ok)
	v, _ := out.Rows[1].Get("date")
	assert.Equal(t, "2020-01-01", v)
	_, ok = out.Rows[1].Get("text")
	assert.False(t, ok)

	fields := out.Rows[0].Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, Field{Name: "text", Value: "dark stairway", Valid: true}, fields[1])
}

func TestBatch_Select(t *testing.T) {
	h := NewHeader("naics_code", "activity_nr", "site_city")
	b := Batch{Header: h, Rows: []Raw{New(h, []string{"6111", "7", "Austin"})}}

	got := b.Select("activity_nr", "naics_code", "sic_code")
	assert.Equal(t, []string{"naics_code", "activity_nr"}, got.Header.Names())
	v, ok := got.Rows[0].Get("activity_nr")
	require.True(t, ok)
	assert.Equal(t, "7", v)
	_, ok = got.Rows[0].Get("site_city")
	assert.False(t, ok)
}
