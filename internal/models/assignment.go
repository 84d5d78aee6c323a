package models

import "time"

// Priority is the urgency level of an assignment
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every valid priority from lowest to highest
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Weight orders priorities for sorting: high 3, medium 2, low 1
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Assignment represents a trackable piece of coursework
type Assignment struct {
	ID             string
	Title          string
	Description    string // empty when not provided
	Subject        string
	DueDate        time.Time
	StartDate      *time.Time
	Priority       Priority
	Completed      bool
	WorkDateRanges []WorkDateRange
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Clone returns a deep copy so callers can't reach into a cache through it
func (a Assignment) Clone() Assignment {
	c := a
	if a.StartDate != nil {
		sd := *a.StartDate
		c.StartDate = &sd
	}
	if a.WorkDateRanges != nil {
		c.WorkDateRanges = make([]WorkDateRange, len(a.WorkDateRanges))
		copy(c.WorkDateRanges, a.WorkDateRanges)
	}
	return c
}

// WorkDateRange is an inclusive span of days planned for working on an assignment
type WorkDateRange struct {
	ID           string
	AssignmentID string
	StartDate    time.Time
	EndDate      time.Time
}

// NewAssignment contains the information needed to create an assignment
type NewAssignment struct {
	Title       string     `validate:"required" label:"Title"`
	Description string
	Subject     string     `validate:"required" label:"Subject"`
	DueDate     time.Time  `validate:"required" label:"Due date"`
	StartDate   *time.Time
	Priority    Priority   `validate:"omitempty,oneof=low medium high" label:"Priority"`
	Completed   bool
}

// AssignmentPatch lists the fields that may change on an existing assignment.
// Nil fields are left untouched.
type AssignmentPatch struct {
	Title          *string
	Description    *string
	Subject        *string
	DueDate        *time.Time
	StartDate      *time.Time
	ClearStartDate bool
	Priority       *Priority
	Completed      *bool
}

// IsEmpty reports whether the patch would change nothing
func (p AssignmentPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Subject == nil &&
		p.DueDate == nil && p.StartDate == nil && !p.ClearStartDate &&
		p.Priority == nil && p.Completed == nil
}

// Apply merges the patch into a. Identity and timestamps are not touched.
func (p AssignmentPatch) Apply(a *Assignment) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Subject != nil {
		a.Subject = *p.Subject
	}
	if p.DueDate != nil {
		a.DueDate = *p.DueDate
	}
	if p.ClearStartDate {
		a.StartDate = nil
	}
	if p.StartDate != nil {
		sd := *p.StartDate
		a.StartDate = &sd
	}
	if p.Priority != nil {
		a.Priority = *p.Priority
	}
	if p.Completed != nil {
		a.Completed = *p.Completed
	}
}
