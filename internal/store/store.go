// Package store keeps the client-side cache of assignments and their work
// ranges in sync with the server. The cache only ever reflects confirmed
// server state: every mutation waits for the remote call to succeed first.
package store

import (
	"context"
	"errors"
	"log"
	"slices"
	"sync"
	"time"

	"assignmenttracker/internal/client"
	"assignmenttracker/internal/filter"
	"assignmenttracker/internal/models"
)

// Fallback messages when the failure didn't come from the API itself
const (
	msgLoadFailed        = "Failed to load assignments"
	msgCreateFailed      = "Failed to create assignment"
	msgUpdateFailed      = "Failed to update assignment"
	msgDeleteFailed      = "Failed to delete assignment"
	msgAddRangeFailed    = "Failed to create work date range"
	msgDeleteRangeFailed = "Failed to delete work date range"
)

// Remote is the server the store synchronizes with. *client.Client implements it.
type Remote interface {
	ListAssignments(ctx context.Context) ([]models.Assignment, error)
	CreateAssignment(ctx context.Context, input models.NewAssignment) (models.Assignment, error)
	UpdateAssignment(ctx context.Context, id string, patch models.AssignmentPatch) (models.Assignment, error)
	DeleteAssignment(ctx context.Context, id string) error
	ListWorkRanges(ctx context.Context, assignmentID string) ([]models.WorkDateRange, error)
	CreateWorkRange(ctx context.Context, assignmentID string, start, end time.Time) (models.WorkDateRange, error)
	DeleteWorkRange(ctx context.Context, rangeID string) error
}

var _ Remote = (*client.Client)(nil)

// Stats are the completion counters shown next to the list
type Stats struct {
	Total     int
	Completed int
	Percent   int // rounded down; 0 when there are no assignments
}

// Store is the authoritative in-memory set of assignments.
// It is safe for concurrent use; the lock is never held across a remote call,
// so two racing updates of one assignment resolve last-response-wins.
type Store struct {
	remote Remote

	mu      sync.RWMutex
	items   map[string]models.Assignment
	order   []string
	loading int
	lastErr string
}

// New creates an empty store backed by remote
func New(remote Remote) *Store {
	return &Store{
		remote: remote,
		items:  make(map[string]models.Assignment),
	}
}

// Load replaces the cache with the server's assignments and their work ranges.
// A failed range fetch for one assignment is logged and leaves that
// assignment with no ranges instead of failing the whole load.
func (s *Store) Load(ctx context.Context) error {
	s.begin(true)
	defer s.end(true)

	list, err := s.remote.ListAssignments(ctx)
	if err != nil {
		return s.fail(err, msgLoadFailed)
	}

	var wg sync.WaitGroup
	for i := range list {
		wg.Add(1)
		go func(a *models.Assignment) {
			defer wg.Done()
			ranges, err := s.remote.ListWorkRanges(ctx, a.ID)
			if err != nil {
				log.Printf("Error loading work ranges for assignment %s: %v", a.ID, err)
				a.WorkDateRanges = []models.WorkDateRange{}
				return
			}
			a.WorkDateRanges = ranges
		}(&list[i])
	}
	wg.Wait()

	items := make(map[string]models.Assignment, len(list))
	order := make([]string, 0, len(list))
	for _, a := range list {
		if a.WorkDateRanges == nil {
			a.WorkDateRanges = []models.WorkDateRange{}
		}
		if _, dup := items[a.ID]; !dup {
			order = append(order, a.ID)
		}
		items[a.ID] = a
	}

	s.mu.Lock()
	s.items = items
	s.order = order
	s.mu.Unlock()
	return nil
}

// Add creates an assignment and appends it to the cache
func (s *Store) Add(ctx context.Context, input models.NewAssignment) (models.Assignment, error) {
	s.begin(false)

	created, err := s.remote.CreateAssignment(ctx, input)
	if err != nil {
		return models.Assignment{}, s.fail(err, msgCreateFailed)
	}
	if created.WorkDateRanges == nil {
		created.WorkDateRanges = []models.WorkDateRange{}
	}

	s.mu.Lock()
	if _, exists := s.items[created.ID]; !exists {
		s.order = append(s.order, created.ID)
	}
	s.items[created.ID] = created
	s.mu.Unlock()

	return created.Clone(), nil
}

// Update submits patch and replaces the cached entry with the server's
// version. The server never echoes work ranges, so the cached ones are
// carried over. An assignment removed while the request was in flight is
// not brought back.
func (s *Store) Update(ctx context.Context, id string, patch models.AssignmentPatch) (models.Assignment, error) {
	s.begin(false)

	updated, err := s.remote.UpdateAssignment(ctx, id, patch)
	if err != nil {
		return models.Assignment{}, s.fail(err, msgUpdateFailed)
	}

	s.mu.Lock()
	if prev, ok := s.items[id]; ok {
		updated.WorkDateRanges = prev.WorkDateRanges
		s.items[id] = updated
	}
	s.mu.Unlock()

	if updated.WorkDateRanges == nil {
		updated.WorkDateRanges = []models.WorkDateRange{}
	}
	return updated.Clone(), nil
}

// Remove deletes an assignment and evicts it, ranges included
func (s *Store) Remove(ctx context.Context, id string) error {
	s.begin(false)

	if err := s.remote.DeleteAssignment(ctx, id); err != nil {
		return s.fail(err, msgDeleteFailed)
	}

	s.mu.Lock()
	s.evict(id)
	s.mu.Unlock()
	return nil
}

// ToggleCompletion flips the completed flag. Unknown ids are ignored.
func (s *Store) ToggleCompletion(ctx context.Context, id string) error {
	s.mu.RLock()
	a, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	completed := !a.Completed
	_, err := s.Update(ctx, id, models.AssignmentPatch{Completed: &completed})
	return err
}

// AddWorkRange plans the inclusive days [start, end] for an assignment
func (s *Store) AddWorkRange(ctx context.Context, assignmentID string, start, end time.Time) (models.WorkDateRange, error) {
	s.begin(false)

	r, err := s.remote.CreateWorkRange(ctx, assignmentID, start, end)
	if err != nil {
		return models.WorkDateRange{}, s.fail(err, msgAddRangeFailed)
	}

	s.mu.Lock()
	if a, ok := s.items[assignmentID]; ok {
		ranges := append(slices.Clone(a.WorkDateRanges), r)
		slices.SortStableFunc(ranges, func(x, y models.WorkDateRange) int {
			return x.StartDate.Compare(y.StartDate)
		})
		a.WorkDateRanges = ranges
		s.items[assignmentID] = a
	}
	s.mu.Unlock()
	return r, nil
}

// RemoveWorkRange deletes one range from an assignment
func (s *Store) RemoveWorkRange(ctx context.Context, assignmentID, rangeID string) error {
	s.begin(false)

	if err := s.remote.DeleteWorkRange(ctx, rangeID); err != nil {
		return s.fail(err, msgDeleteRangeFailed)
	}

	s.mu.Lock()
	if a, ok := s.items[assignmentID]; ok {
		a.WorkDateRanges = slices.DeleteFunc(slices.Clone(a.WorkDateRanges), func(r models.WorkDateRange) bool {
			return r.ID == rangeID
		})
		s.items[assignmentID] = a
	}
	s.mu.Unlock()
	return nil
}

// All returns copies of the cached assignments in load and insertion order
func (s *Store) All() []models.Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Assignment, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id].Clone())
	}
	return out
}

// Get returns a copy of one cached assignment
func (s *Store) Get(id string) (models.Assignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.items[id]
	if !ok {
		return models.Assignment{}, false
	}
	return a.Clone(), true
}

// Project runs the filter engine over the cache
func (s *Store) Project(opts filter.Options) []models.Assignment {
	return filter.Project(s.All(), opts)
}

// Stats counts the cached assignments and how many are done
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Total: len(s.items)}
	for _, a := range s.items {
		if a.Completed {
			st.Completed++
		}
	}
	if st.Total > 0 {
		st.Percent = st.Completed * 100 / st.Total
	}
	return st
}

// Loading reports whether a full load is in progress
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading > 0
}

// Err returns the message of the last failed operation, or ""
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// DismissError clears the recorded error without retrying anything
func (s *Store) DismissError() {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *Store) begin(loading bool) {
	s.mu.Lock()
	s.lastErr = ""
	if loading {
		s.loading++
	}
	s.mu.Unlock()
}

func (s *Store) end(loading bool) {
	if !loading {
		return
	}
	s.mu.Lock()
	s.loading--
	s.mu.Unlock()
}

// fail records a human-readable message for err and hands err back
func (s *Store) fail(err error, fallback string) error {
	msg := fallback
	var te *client.TransportError
	var nf *client.NotFoundError
	switch {
	case errors.As(err, &nf):
		msg = nf.Message
	case errors.As(err, &te) && te.Status != 0:
		msg = te.Message
	}

	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
	return err
}

// evict must be called with the write lock held
func (s *Store) evict(id string) {
	if _, ok := s.items[id]; !ok {
		return
	}
	delete(s.items, id)
	s.order = slices.DeleteFunc(s.order, func(o string) bool { return o == id })
}
