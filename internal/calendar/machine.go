// Package calendar holds the drag-to-plan gesture and the per-day queries
// behind the month view.
package calendar

import (
	"context"
	"sync"
	"time"

	"assignmenttracker/internal/dates"
	"assignmenttracker/internal/models"
)

// WorkRangeAdder receives committed gestures. *store.Store implements it.
type WorkRangeAdder interface {
	AddWorkRange(ctx context.Context, assignmentID string, start, end time.Time) (models.WorkDateRange, error)
}

// State of the gesture
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Machine tracks a pointer drag across calendar cells and turns it into a
// work range for the selected assignment. Gestures are ignored while nothing
// is selected. It is safe for concurrent use.
type Machine struct {
	adder WorkRangeAdder

	mu       sync.Mutex
	selected string
	state    State
	anchor   time.Time
	current  time.Time

	pending sync.WaitGroup
}

// NewMachine creates an idle machine with no selection
func NewMachine(adder WorkRangeAdder) *Machine {
	return &Machine{adder: adder}
}

// Select makes id the target of future gestures. Changing the selection
// mid-drag cancels the drag so a range can't land on the wrong assignment.
func (m *Machine) Select(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id != m.selected {
		m.state = Idle
	}
	m.selected = id
}

// Deselect clears the selection and cancels any drag
func (m *Machine) Deselect() {
	m.Select("")
}

// Selected returns the selected assignment id, or ""
func (m *Machine) Selected() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

// State returns the gesture state and, while dragging, the anchor and current cells
func (m *Machine) State() (State, time.Time, time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.anchor, m.current
}

// PointerDown starts a drag on day d
func (m *Machine) PointerDown(d time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selected == "" {
		return
	}
	d = dates.StartOfDay(d)
	m.state = Dragging
	m.anchor = d
	m.current = d
}

// PointerEnter moves the free end of the drag to day d
func (m *Machine) PointerEnter(d time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Dragging {
		return
	}
	m.current = dates.StartOfDay(d)
}

// PointerUp ends the drag. A selection spanning at least two days is sent to
// the adder on a background goroutine; the machine is Idle again as soon as
// PointerUp returns, whatever the request's outcome. Failures are reported
// by the adder. It returns whether a range was emitted.
func (m *Machine) PointerUp(ctx context.Context) bool {
	m.mu.Lock()
	if m.state != Dragging {
		m.mu.Unlock()
		return false
	}
	start, end := dates.NormalizeRange(m.anchor, m.current)
	id := m.selected
	m.state = Idle
	m.mu.Unlock()

	if dates.IsSameDay(start, end) {
		return false
	}

	m.pending.Add(1)
	go func() {
		defer m.pending.Done()
		_, _ = m.adder.AddWorkRange(ctx, id, start, end)
	}()
	return true
}

// Cancel abandons a drag without emitting anything
func (m *Machine) Cancel() {
	m.mu.Lock()
	m.state = Idle
	m.mu.Unlock()
}

// InDragSelection reports whether day d lies within the current drag, for
// highlighting. It never changes state.
func (m *Machine) InDragSelection(d time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Dragging {
		return false
	}
	start, end := dates.NormalizeRange(m.anchor, m.current)
	return dates.IsWithinInterval(dates.StartOfDay(d), dates.Interval{Start: start, End: end})
}

// Wait blocks until every range emitted so far has been resolved
func (m *Machine) Wait() {
	m.pending.Wait()
}
