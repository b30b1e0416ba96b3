package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGenres(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"single quotes", "[{'id': 28, 'name': 'Action'}, {'id': 12, 'name': 'Adventure'}]", []string{"Action", "Adventure"}},
		{"double quotes", `[{"id": 18, "name": "Drama"}]`, []string{"Drama"}},
		{"order preserved", "[{'name': 'Thriller'}, {'name': 'Action'}]", []string{"Thriller", "Action"}},
		{"skips non-dict entries", "[1, 'x', {'name': 'Comedy'}]", []string{"Comedy"}},
		{"skips missing name", "[{'id': 1}, {'name': 'Horror'}]", []string{"Horror"}},
		{"trims names", "[{'name': '  War '}]", []string{"War"}},
		{"empty list", "[]", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseGenres(tt.raw))
		})
	}
}

func TestParseGenresMalformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		"[{'name': 'Action'",
		"not a list",
		"{'name': 'Action'}",
		"[{'name': 'Don't'}]",
		"]]][[[",
	} {
		got := ParseGenres(raw)
		require.NotNil(t, got, raw)
		assert.Empty(t, got, raw)
	}
}

func TestParseGenreList(t *testing.T) {
	assert.Equal(t, []string{"Action", "Drama"}, ParseGenreList(`["Action", "Drama"]`))
	assert.Equal(t, []string{"Crime"}, ParseGenreList("['Crime']"))
	assert.Empty(t, ParseGenreList("garbage"))
}

func TestMainGenre(t *testing.T) {
	assert.Nil(t, MainGenre(nil))
	assert.Nil(t, MainGenre([]string{}))

	main := MainGenre([]string{"Drama", "Action"})
	require.NotNil(t, main)
	assert.Equal(t, "Drama", *main)
}

func TestExtractYear(t *testing.T) {
	year, ok := ExtractYear("2009-12-10")
	assert.True(t, ok)
	assert.Equal(t, 2009, year)

	year, ok = ExtractYear("1999-03-31")
	assert.True(t, ok)
	assert.Equal(t, 1999, year)

	for _, bad := range []string{"", "  ", "2009", "2009-12", "10/12/2009", "2009-1-5", " 2009-12-10", "2009-13-01", "abcd-ef-gh"} {
		_, ok := ExtractYear(bad)
		assert.False(t, ok, bad)
	}
}
