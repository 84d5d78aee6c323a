package models

import (
	"encoding/json"
	"fmt"
	"time"

	"assignmenttracker/internal/dates"
)

// AssignmentJSON is the wire representation of an assignment (snake_case keys)
type AssignmentJSON struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     string  `json:"due_date"`
	StartDate   *string `json:"start_date"`
	Completed   bool    `json:"completed"`
	Priority    string  `json:"priority"`
	Subject     string  `json:"subject"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// NewAssignmentJSON is the body of a create request
type NewAssignmentJSON struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	DueDate     string  `json:"due_date"`
	StartDate   *string `json:"start_date,omitempty"`
	Completed   bool    `json:"completed"`
	Priority    string  `json:"priority,omitempty"`
	Subject     string  `json:"subject"`
}

// WorkDateRangeJSON is the wire representation of a work range
type WorkDateRangeJSON struct {
	ID           string `json:"id"`
	AssignmentID string `json:"assignment_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

// NewWorkDateRangeJSON is the body of a work range create request
type NewWorkDateRangeJSON struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// ToJSON converts an assignment to its wire form. Work ranges travel on their own endpoint.
func (a Assignment) ToJSON() AssignmentJSON {
	j := AssignmentJSON{
		ID:        a.ID,
		Title:     a.Title,
		DueDate:   dates.FormatWire(a.DueDate),
		Completed: a.Completed,
		Priority:  string(a.Priority),
		Subject:   a.Subject,
		CreatedAt: dates.FormatWire(a.CreatedAt),
		UpdatedAt: dates.FormatWire(a.UpdatedAt),
	}
	if a.Description != "" {
		desc := a.Description
		j.Description = &desc
	}
	if a.StartDate != nil {
		sd := dates.FormatWire(*a.StartDate)
		j.StartDate = &sd
	}
	return j
}

// ToAssignment parses every date field of the wire form
func (j AssignmentJSON) ToAssignment() (Assignment, error) {
	a := Assignment{
		ID:             j.ID,
		Title:          j.Title,
		Subject:        j.Subject,
		Priority:       Priority(j.Priority),
		Completed:      j.Completed,
		WorkDateRanges: []WorkDateRange{},
	}
	if j.Description != nil {
		a.Description = *j.Description
	}

	var err error
	if a.DueDate, err = dates.ParseWire(j.DueDate); err != nil {
		return Assignment{}, fmt.Errorf("due_date: %w", err)
	}
	if j.StartDate != nil && *j.StartDate != "" {
		sd, err := dates.ParseWire(*j.StartDate)
		if err != nil {
			return Assignment{}, fmt.Errorf("start_date: %w", err)
		}
		a.StartDate = &sd
	}
	if a.CreatedAt, err = dates.ParseWire(j.CreatedAt); err != nil {
		return Assignment{}, fmt.Errorf("created_at: %w", err)
	}
	if a.UpdatedAt, err = dates.ParseWire(j.UpdatedAt); err != nil {
		return Assignment{}, fmt.Errorf("updated_at: %w", err)
	}
	return a, nil
}

// ToJSON converts creation input to a request body
func (n NewAssignment) ToJSON() NewAssignmentJSON {
	j := NewAssignmentJSON{
		Title:     n.Title,
		DueDate:   dates.FormatWire(n.DueDate),
		Completed: n.Completed,
		Priority:  string(n.Priority),
		Subject:   n.Subject,
	}
	if n.Description != "" {
		desc := n.Description
		j.Description = &desc
	}
	if n.StartDate != nil {
		sd := dates.FormatWire(*n.StartDate)
		j.StartDate = &sd
	}
	return j
}

// ToNewAssignment parses a create request body
func (j NewAssignmentJSON) ToNewAssignment() (NewAssignment, error) {
	n := NewAssignment{
		Title:     j.Title,
		Subject:   j.Subject,
		Priority:  Priority(j.Priority),
		Completed: j.Completed,
	}
	if j.Description != nil {
		n.Description = *j.Description
	}
	if j.DueDate != "" {
		due, err := dates.ParseWire(j.DueDate)
		if err != nil {
			return NewAssignment{}, fmt.Errorf("due_date: %w", err)
		}
		n.DueDate = due
	}
	if j.StartDate != nil && *j.StartDate != "" {
		sd, err := dates.ParseWire(*j.StartDate)
		if err != nil {
			return NewAssignment{}, fmt.Errorf("start_date: %w", err)
		}
		n.StartDate = &sd
	}
	return n, nil
}

// ToJSON converts a work range to its wire form
func (r WorkDateRange) ToJSON() WorkDateRangeJSON {
	return WorkDateRangeJSON{
		ID:           r.ID,
		AssignmentID: r.AssignmentID,
		StartDate:    dates.FormatWire(r.StartDate),
		EndDate:      dates.FormatWire(r.EndDate),
	}
}

// ToWorkDateRange parses the wire form of a work range
func (j WorkDateRangeJSON) ToWorkDateRange() (WorkDateRange, error) {
	start, err := dates.ParseWire(j.StartDate)
	if err != nil {
		return WorkDateRange{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := dates.ParseWire(j.EndDate)
	if err != nil {
		return WorkDateRange{}, fmt.Errorf("end_date: %w", err)
	}
	return WorkDateRange{
		ID:           j.ID,
		AssignmentID: j.AssignmentID,
		StartDate:    start,
		EndDate:      end,
	}, nil
}

// Parse reads both ends of a work range create request
func (j NewWorkDateRangeJSON) Parse() (time.Time, time.Time, error) {
	start, err := dates.ParseWire(j.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("startDate: %w", err)
	}
	end, err := dates.ParseWire(j.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("endDate: %w", err)
	}
	return start, end, nil
}

// EncodePatch builds a partial update body holding only the fields set in p.
// A cleared start date is sent as null.
func EncodePatch(p AssignmentPatch) map[string]any {
	body := make(map[string]any)
	if p.Title != nil {
		body["title"] = *p.Title
	}
	if p.Description != nil {
		body["description"] = *p.Description
	}
	if p.Subject != nil {
		body["subject"] = *p.Subject
	}
	if p.DueDate != nil {
		body["due_date"] = dates.FormatWire(*p.DueDate)
	}
	if p.StartDate != nil {
		body["start_date"] = dates.FormatWire(*p.StartDate)
	} else if p.ClearStartDate {
		body["start_date"] = nil
	}
	if p.Priority != nil {
		body["priority"] = string(*p.Priority)
	}
	if p.Completed != nil {
		body["completed"] = *p.Completed
	}
	return body
}

// DecodePatch reads a partial update body. Only the known fields are
// considered; id and timestamps can't be patched and other keys are ignored.
func DecodePatch(raw map[string]json.RawMessage) (AssignmentPatch, error) {
	var p AssignmentPatch

	str := func(key string) (*string, error) {
		v, ok := raw[key]
		if !ok {
			return nil, nil
		}
		var s *string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, fmt.Errorf("%s: must be a string", key)
		}
		if s == nil {
			empty := ""
			return &empty, nil
		}
		return s, nil
	}

	var err error
	if p.Title, err = str("title"); err != nil {
		return p, err
	}
	if p.Description, err = str("description"); err != nil {
		return p, err
	}
	if p.Subject, err = str("subject"); err != nil {
		return p, err
	}

	if v, ok := raw["due_date"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return p, fmt.Errorf("due_date: must be a date string")
		}
		due, err := dates.ParseWire(s)
		if err != nil {
			return p, fmt.Errorf("due_date: %w", err)
		}
		p.DueDate = &due
	}

	if v, ok := raw["start_date"]; ok {
		var s *string
		if err := json.Unmarshal(v, &s); err != nil {
			return p, fmt.Errorf("start_date: must be a date string or null")
		}
		if s == nil || *s == "" {
			p.ClearStartDate = true
		} else {
			sd, err := dates.ParseWire(*s)
			if err != nil {
				return p, fmt.Errorf("start_date: %w", err)
			}
			p.StartDate = &sd
		}
	}

	if v, ok := raw["priority"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return p, fmt.Errorf("priority: must be a string")
		}
		prio := Priority(s)
		p.Priority = &prio
	}

	if v, ok := raw["completed"]; ok {
		var b bool
		if err := json.Unmarshal(v, &b); err != nil {
			return p, fmt.Errorf("completed: must be a boolean")
		}
		p.Completed = &b
	}

	return p, nil
}
