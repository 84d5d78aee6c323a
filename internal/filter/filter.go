// Package filter derives the displayed list of assignments from the cached
// set and a filter configuration. Nothing here mutates its input.
package filter

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"assignmenttracker/internal/models"
)

// SortField selects the sort key
type SortField string

const (
	SortByDueDate   SortField = "dueDate"
	SortByPriority  SortField = "priority"
	SortByCreatedAt SortField = "createdAt"
)

// Direction is the sort order
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// PriorityAll disables the priority filter
const PriorityAll = "all"

// Options is the filter configuration of the list view
type Options struct {
	ShowCompleted bool
	Priority      string // PriorityAll or one of the models.Priority values
	Subject       string // case-insensitive substring; empty matches all
	SortBy        SortField
	Direction     Direction
}

// DefaultOptions shows everything, earliest due date first
func DefaultOptions() Options {
	return Options{
		ShowCompleted: true,
		Priority:      PriorityAll,
		SortBy:        SortByDueDate,
		Direction:     Ascending,
	}
}

// Matches reports whether a passes the filters of opts
func (opts Options) Matches(a models.Assignment) bool {
	if !opts.ShowCompleted && a.Completed {
		return false
	}
	if opts.Priority != "" && opts.Priority != PriorityAll && string(a.Priority) != opts.Priority {
		return false
	}
	if opts.Subject != "" && !strings.Contains(strings.ToLower(a.Subject), strings.ToLower(opts.Subject)) {
		return false
	}
	return true
}

func (opts Options) compare(a, b models.Assignment) int {
	var c int
	switch opts.SortBy {
	case SortByPriority:
		c = cmp.Compare(a.Priority.Weight(), b.Priority.Weight())
	case SortByCreatedAt:
		c = a.CreatedAt.Compare(b.CreatedAt)
	default:
		c = a.DueDate.Compare(b.DueDate)
	}
	if opts.Direction == Descending {
		return -c
	}
	return c
}

// Project filters and sorts assignments into a new slice. The sort is stable,
// so items with equal keys keep their relative input order.
func Project(assignments []models.Assignment, opts Options) []models.Assignment {
	out := make([]models.Assignment, 0, len(assignments))
	for _, a := range assignments {
		if opts.Matches(a) {
			out = append(out, a)
		}
	}
	slices.SortStableFunc(out, opts.compare)
	return out
}

// Status is the due-date state shown next to an assignment
type Status struct {
	Overdue bool // not completed and due before now
	DueSoon bool // not completed and due within the next three days
	Started bool // start date has passed
}

// Classify computes the status of a at instant now
func Classify(a models.Assignment, now time.Time) Status {
	return Status{
		Overdue: !a.Completed && a.DueDate.Before(now),
		DueSoon: !a.Completed && a.DueDate.Before(now.AddDate(0, 0, 3)),
		Started: a.StartDate != nil && a.StartDate.Before(now),
	}
}

// Overdue lists the overdue assignments, earliest due date first
func Overdue(assignments []models.Assignment, now time.Time) []models.Assignment {
	var out []models.Assignment
	for _, a := range assignments {
		if Classify(a, now).Overdue {
			out = append(out, a)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Assignment) int {
		return a.DueDate.Compare(b.DueDate)
	})
	return out
}

// Upcoming lists incomplete assignments due within the next seven days,
// soonest first, at most limit of them (limit <= 0 means no limit)
func Upcoming(assignments []models.Assignment, now time.Time, limit int) []models.Assignment {
	weekAhead := now.AddDate(0, 0, 7)
	var out []models.Assignment
	for _, a := range assignments {
		if !a.Completed && a.DueDate.After(now) && a.DueDate.Before(weekAhead) {
			out = append(out, a)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Assignment) int {
		return a.DueDate.Compare(b.DueDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
