package normalize

import (
	"testing"

	"github.com/abhisek/luxscan/internal/record"
	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only whitespace", " \t\r\n ", ""},
		{"line breaks", "dark\r\nstairway\nlanding", "dark stairway landing"},
		{"runs", "  too   dark \t here  ", "too dark here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestText(t *testing.T) {
	rec := record.FromMap(
		[]string{"desc", "abatement", "blank", "id"},
		map[string]string{
			"desc":      "Stairway  was\ndimly lit",
			"abatement": "Install fixtures",
			"blank":     "   ",
			"id":        "42",
		},
	)

	assert.Equal(t, "Stairway was dimly lit | Install fixtures", Text(rec, []string{"desc", "abatement"}))
	assert.Equal(t, "Install fixtures | Stairway was dimly lit", Text(rec, []string{"abatement", "desc"}))
	assert.Equal(t, "Stairway was dimly lit", Text(rec, []string{"missing", "blank", "desc"}))
	assert.Equal(t, "", Text(rec, []string{"missing", "blank"}))
	assert.Equal(t, "", Text(rec, nil))
}

func TestField(t *testing.T) {
	rec := record.FromMap([]string{"standard"}, map[string]string{"standard": " 1910.37 \n"})
	assert.Equal(t, "1910.37", Field(rec, "standard"))
	assert.Equal(t, "", Field(rec, ""))
	assert.Equal(t, "", Field(rec, "other"))
}
