package calendar

import (
	"time"

	"assignmenttracker/internal/dates"
	"assignmenttracker/internal/models"
)

// DayTile is what one calendar cell shows
type DayTile struct {
	Date     time.Time
	Due      []models.Assignment
	Starting []models.Assignment
	Working  []models.Assignment
}

// Empty reports whether nothing happens on the day
func (t DayTile) Empty() bool {
	return len(t.Due) == 0 && len(t.Starting) == 0 && len(t.Working) == 0
}

// DueOn returns the assignments due on day d (in d's location)
func DueOn(list []models.Assignment, d time.Time) []models.Assignment {
	var out []models.Assignment
	for _, a := range list {
		if dates.IsSameDay(d, a.DueDate) {
			out = append(out, a)
		}
	}
	return out
}

// StartsOn returns the assignments whose start date is day d
func StartsOn(list []models.Assignment, d time.Time) []models.Assignment {
	var out []models.Assignment
	for _, a := range list {
		if a.StartDate != nil && dates.IsSameDay(d, *a.StartDate) {
			out = append(out, a)
		}
	}
	return out
}

// WorkingOn returns the assignments with a work range covering day d
func WorkingOn(list []models.Assignment, d time.Time) []models.Assignment {
	var out []models.Assignment
	for _, a := range list {
		if HasWorkOn(a, d) {
			out = append(out, a)
		}
	}
	return out
}

// HasWorkOn reports whether any of a's work ranges covers day d
func HasWorkOn(a models.Assignment, d time.Time) bool {
	loc := d.Location()
	day := dates.StartOfDay(d)
	for _, r := range a.WorkDateRanges {
		start, end := dates.NormalizeRange(dates.StartOfDay(r.StartDate.In(loc)), dates.StartOfDay(r.EndDate.In(loc)))
		if dates.IsWithinInterval(day, dates.Interval{Start: start, End: end}) {
			return true
		}
	}
	return false
}

// Tile collects everything happening on day d
func Tile(list []models.Assignment, d time.Time) DayTile {
	return DayTile{
		Date:     dates.StartOfDay(d),
		Due:      DueOn(list, d),
		Starting: StartsOn(list, d),
		Working:  WorkingOn(list, d),
	}
}

// MonthGrid lays out a month as whole weeks beginning on weekStart, padded
// with days of the neighbouring months.
func MonthGrid(year int, month time.Month, weekStart time.Weekday, loc *time.Location) [][]time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	lead := (int(first.Weekday()) - int(weekStart) + 7) % 7
	cur := dates.AddDays(first, -lead)

	var weeks [][]time.Time
	for !cur.After(last) {
		week := make([]time.Time, 7)
		for i := range week {
			week[i] = cur
			cur = dates.AddDays(cur, 1)
		}
		weeks = append(weeks, week)
	}
	return weeks
}
