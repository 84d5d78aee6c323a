package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"assignmenttracker/internal/dates"
	"assignmenttracker/internal/models"
)

const calendarProductID = "-//assignmenttracker//calendar feed//EN"

// CalendarService renders assignments as an iCalendar feed: one all-day
// event on each due date and one spanning each planned work period.
type CalendarService struct {
	assignments *AssignmentService
}

// NewCalendarService creates a new calendar service
func NewCalendarService(assignments *AssignmentService) *CalendarService {
	return &CalendarService{assignments: assignments}
}

// Feed builds the calendar with day boundaries taken in loc
func (s *CalendarService) Feed(ctx context.Context, loc *time.Location) (string, error) {
	assignments, err := s.assignments.ListWithRanges(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load assignments: %w", err)
	}
	return BuildCalendar(assignments, loc, time.Now()).Serialize(), nil
}

// BuildCalendar converts assignments into VEVENTs
func BuildCalendar(assignments []models.Assignment, loc *time.Location, stamp time.Time) *ical.Calendar {
	if loc == nil {
		loc = time.UTC
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName("Assignments")

	for _, a := range assignments {
		due := dates.StartOfDay(a.DueDate.In(loc))

		event := cal.AddEvent(a.ID + "-due@assignmenttracker")
		event.SetDtStampTime(stamp)
		event.SetCreatedTime(a.CreatedAt)
		event.SetModifiedAt(a.UpdatedAt)
		event.SetAllDayStartAt(due)
		event.SetAllDayEndAt(dates.AddDays(due, 1))
		event.SetSummary(summary("Due", a))
		event.SetDescription(describe(a))
		event.SetProperty(ical.ComponentPropertyCategories, a.Subject)

		for _, r := range a.WorkDateRanges {
			start, end := dates.NormalizeRange(r.StartDate.In(loc), r.EndDate.In(loc))
			start = dates.StartOfDay(start)
			end = dates.StartOfDay(end)

			work := cal.AddEvent(r.ID + "-work@assignmenttracker")
			work.SetDtStampTime(stamp)
			work.SetAllDayStartAt(start)
			work.SetAllDayEndAt(dates.AddDays(end, 1))
			work.SetSummary(summary("Work", a))
			work.SetDescription(describe(a))
			work.SetProperty(ical.ComponentPropertyCategories, a.Subject)
		}
	}

	return cal
}

func summary(kind string, a models.Assignment) string {
	s := fmt.Sprintf("%s: %s (%s)", kind, a.Title, a.Subject)
	if a.Completed {
		s += " [done]"
	}
	return s
}

func describe(a models.Assignment) string {
	lines := []string{"Priority: " + string(a.Priority)}
	if a.StartDate != nil {
		lines = append(lines, "Start: "+a.StartDate.Format(dates.DateOnlyLayout))
	}
	if a.Description != "" {
		lines = append(lines, a.Description)
	}
	return strings.Join(lines, "\n")
}
