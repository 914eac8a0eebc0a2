package activity

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByMonth(t *testing.T) {
	raws := decode(t, `[
		{"id":"a","date":"2025-11-02"},
		{"id":"b","date":"2025-11-24"},
		{"id":"c","date":"not a date"},
		{"id":"d","date":"2025-12-01"},
		{"id":"e","date":"2025-11-24"},
		{"id":"f"},
		{"id":"g","date":"2024-06-15"}
	]`)
	events := Normalize(raws, DefaultOptions())

	months := GroupByMonth(events, DefaultSeasons())
	require.Len(t, months, 4)

	assert.Equal(t, "December 2025", months[0].Label)
	assert.Equal(t, "winter", months[0].Season)

	nov := months[1]
	assert.Equal(t, "November 2025", nov.Label)
	assert.Equal(t, "postmon", nov.Season)
	require.Len(t, nov.Dates, 2)
	assert.Equal(t, "2025-11-24", nov.Dates[0].Date)
	assert.Equal(t, "2025-11-02", nov.Dates[1].Date)
	require.Len(t, nov.Dates[0].Events, 2)
	assert.Equal(t, "b", nov.Dates[0].Events[0].ID, "same-date events keep input order")
	assert.Equal(t, "e", nov.Dates[0].Events[1].ID)

	assert.Equal(t, "June 2024", months[2].Label)
	assert.Equal(t, "monsoon", months[2].Season)

	unknown := months[3]
	assert.Equal(t, "Unknown", unknown.Label)
	assert.Equal(t, "cool", unknown.Season)
	require.Len(t, unknown.Dates, 2)
	assert.Equal(t, "unknown", unknown.Dates[0].Date)
	assert.Equal(t, "not a date", unknown.Dates[1].Date)
}

func TestSeasonTable(t *testing.T) {
	s := DefaultSeasons()
	want := map[int]string{
		1: "winter", 2: "winter", 3: "pre", 4: "pre", 5: "hot", 6: "monsoon",
		7: "monsoon", 8: "monsoon", 9: "monsoon", 10: "postmon", 11: "postmon", 12: "winter",
	}
	for m, tag := range want {
		day, ok := ParseDate(fmt.Sprintf("2025-%02d-10", m))
		require.True(t, ok)
		assert.Equal(t, tag, s.ForDay(day).Tag, "month %d", m)
		assert.NotEmpty(t, s.ForDay(day).Glyph)
	}
	assert.Equal(t, Season{Tag: "nope"}, s.Lookup("nope"))
}
