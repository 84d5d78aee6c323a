package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assignmenttracker/internal/models"
)

func TestDayQueries(t *testing.T) {
	start := day(3)
	list := []models.Assignment{
		{ID: "essay", DueDate: day(10), StartDate: &start, WorkDateRanges: []models.WorkDateRange{
			{ID: "r1", StartDate: day(5), EndDate: day(8)},
		}},
		{ID: "lab", DueDate: day(8).Add(15 * time.Hour)},
	}

	assert.Len(t, DueOn(list, day(10)), 1)
	due8 := DueOn(list, day(8))
	require.Len(t, due8, 1)
	assert.Equal(t, "lab", due8[0].ID)

	assert.Len(t, StartsOn(list, day(3)), 1)
	assert.Empty(t, StartsOn(list, day(4)))

	for d := 4; d <= 9; d++ {
		assert.Equal(t, d >= 5 && d <= 8, len(WorkingOn(list, day(d))) == 1, "day %d", d)
	}

	tile := Tile(list, day(8).Add(9*time.Hour))
	assert.Equal(t, day(8), tile.Date)
	assert.Len(t, tile.Due, 1)
	assert.Len(t, tile.Working, 1)
	assert.Empty(t, tile.Starting)
	assert.True(t, Tile(list, day(20)).Empty())
}

func TestDayQueriesUseCallerLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 20:00 UTC on the 9th is the morning of the 10th in Tokyo
	list := []models.Assignment{{ID: "late", DueDate: time.Date(2024, time.June, 9, 20, 0, 0, 0, time.UTC)}}

	assert.Len(t, DueOn(list, time.Date(2024, time.June, 10, 0, 0, 0, 0, tokyo)), 1)
	assert.Empty(t, DueOn(list, time.Date(2024, time.June, 9, 0, 0, 0, 0, tokyo)))
}

func TestMonthGrid(t *testing.T) {
	// June 2024 starts on a Saturday and has 30 days
	weeks := MonthGrid(2024, time.June, time.Sunday, time.UTC)
	require.Len(t, weeks, 6)
	assert.Equal(t, time.Date(2024, time.May, 26, 0, 0, 0, 0, time.UTC), weeks[0][0])
	assert.Equal(t, day(1), weeks[0][6])
	assert.Equal(t, time.Date(2024, time.July, 6, 0, 0, 0, 0, time.UTC), weeks[5][6])

	monday := MonthGrid(2024, time.June, time.Monday, time.UTC)
	require.Len(t, monday, 5)
	assert.Equal(t, time.Monday, monday[0][0].Weekday())
	assert.Equal(t, time.Date(2024, time.May, 27, 0, 0, 0, 0, time.UTC), monday[0][0])
	assert.Equal(t, time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), monday[4][6])

	for _, w := range weeks {
		assert.Len(t, w, 7)
	}
}
