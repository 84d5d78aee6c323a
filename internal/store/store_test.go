package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assignmenttracker/internal/client"
	"assignmenttracker/internal/filter"
	"assignmenttracker/internal/models"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// fakeRemote is an in-memory server with switchable failures
type fakeRemote struct {
	mu          sync.Mutex
	assignments []models.Assignment
	ranges      map[string][]models.WorkDateRange
	nextID      int

	failList      error
	failRangesFor map[string]bool
	failNext      error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{ranges: map[string][]models.WorkDateRange{}, failRangesFor: map[string]bool{}}
}

func (f *fakeRemote) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s%d", prefix, f.nextID)
}

func (f *fakeRemote) takeFailure() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeRemote) seed(a models.Assignment, ranges ...models.WorkDateRange) {
	f.assignments = append(f.assignments, a)
	f.ranges[a.ID] = ranges
}

func (f *fakeRemote) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList != nil {
		return nil, f.failList
	}
	out := make([]models.Assignment, len(f.assignments))
	copy(out, f.assignments)
	return out, nil
}

func (f *fakeRemote) CreateAssignment(ctx context.Context, input models.NewAssignment) (models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return models.Assignment{}, err
	}
	a := models.Assignment{
		ID:        f.id("a"),
		Title:     input.Title,
		Subject:   input.Subject,
		DueDate:   input.DueDate,
		StartDate: input.StartDate,
		Priority:  input.Priority,
	}
	f.assignments = append(f.assignments, a)
	return a, nil
}

func (f *fakeRemote) UpdateAssignment(ctx context.Context, id string, patch models.AssignmentPatch) (models.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return models.Assignment{}, err
	}
	for i := range f.assignments {
		if f.assignments[i].ID == id {
			patch.Apply(&f.assignments[i])
			return f.assignments[i], nil
		}
	}
	return models.Assignment{}, &client.NotFoundError{Message: "Assignment not found"}
}

func (f *fakeRemote) DeleteAssignment(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return err
	}
	for i := range f.assignments {
		if f.assignments[i].ID == id {
			f.assignments = append(f.assignments[:i], f.assignments[i+1:]...)
			delete(f.ranges, id)
			return nil
		}
	}
	return &client.NotFoundError{Message: "Assignment not found"}
}

func (f *fakeRemote) ListWorkRanges(ctx context.Context, assignmentID string) ([]models.WorkDateRange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRangesFor[assignmentID] {
		return nil, &client.TransportError{Status: 500, Message: "boom"}
	}
	return append([]models.WorkDateRange{}, f.ranges[assignmentID]...), nil
}

func (f *fakeRemote) CreateWorkRange(ctx context.Context, assignmentID string, start, end time.Time) (models.WorkDateRange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return models.WorkDateRange{}, err
	}
	r := models.WorkDateRange{ID: f.id("r"), AssignmentID: assignmentID, StartDate: start, EndDate: end}
	f.ranges[assignmentID] = append(f.ranges[assignmentID], r)
	return r, nil
}

func (f *fakeRemote) DeleteWorkRange(ctx context.Context, rangeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return err
	}
	for aid, list := range f.ranges {
		for i, r := range list {
			if r.ID == rangeID {
				f.ranges[aid] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return &client.NotFoundError{Message: "Work date range not found"}
}

func day(d int) time.Time {
	return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC)
}

func TestLoad(t *testing.T) {
	remote := newFakeRemote()
	remote.seed(models.Assignment{ID: "x", Title: "Essay", DueDate: day(20)},
		models.WorkDateRange{ID: "r1", AssignmentID: "x", StartDate: day(5), EndDate: day(8)})
	remote.seed(models.Assignment{ID: "y", Title: "Lab", DueDate: day(18)},
		models.WorkDateRange{ID: "r2", AssignmentID: "y", StartDate: day(1), EndDate: day(2)})
	remote.failRangesFor["y"] = true

	s := New(remote)
	require.NoError(t, s.Load(context.Background()))

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "x", all[0].ID)
	assert.Len(t, all[0].WorkDateRanges, 1)
	assert.NotNil(t, all[1].WorkDateRanges)
	assert.Empty(t, all[1].WorkDateRanges, "failed range fetch degrades to no ranges")
	assert.Empty(t, s.Err(), "range failures are not surfaced")
	assert.False(t, s.Loading())
}

func TestLoadFailure(t *testing.T) {
	remote := newFakeRemote()
	remote.failList = &client.TransportError{Status: 500, Message: "database unavailable"}

	s := New(remote)
	err := s.Load(context.Background())

	var te *client.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "database unavailable", s.Err())
	assert.Empty(t, s.All())

	remote.failList = &client.TransportError{Message: "dial tcp: connection refused"}
	require.Error(t, s.Load(context.Background()))
	assert.Equal(t, "Failed to load assignments", s.Err(), "network failures use the generic message")

	s.DismissError()
	assert.Empty(t, s.Err())

	remote.failList = nil
	require.NoError(t, s.Load(context.Background()))
	assert.Empty(t, s.Err())
}

func TestAddAppendsConfirmedAssignment(t *testing.T) {
	remote := newFakeRemote()
	remote.seed(models.Assignment{ID: "x", Title: "Essay"})
	s := New(remote)
	require.NoError(t, s.Load(context.Background()))

	created, err := s.Add(context.Background(), models.NewAssignment{Title: "Lab", Subject: "Chemistry", DueDate: day(20)})
	require.NoError(t, err)

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, created.ID, all[1].ID)
	assert.NotNil(t, all[1].WorkDateRanges)

	remote.failNext = errors.New("offline")
	_, err = s.Add(context.Background(), models.NewAssignment{Title: "Never"})
	require.Error(t, err)
	assert.Equal(t, "Failed to create assignment", s.Err())
	assert.Len(t, s.All(), 2, "cache untouched on failure")
}

func TestUpdateKeepsCachedRanges(t *testing.T) {
	remote := newFakeRemote()
	remote.seed(models.Assignment{ID: "x", Title: "Essay", Priority: models.PriorityLow},
		models.WorkDateRange{ID: "r1", AssignmentID: "x", StartDate: day(5), EndDate: day(8)})
	s := New(remote)
	require.NoError(t, s.Load(context.Background()))

	high := models.PriorityHigh
	updated, err := s.Update(context.Background(), "x", models.AssignmentPatch{Priority: &high})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, updated.Priority)

	got, ok := s.Get("x")
	require.True(t, ok)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	require.Len(t, got.WorkDateRanges, 1)
	assert.Equal(t, "r1", got.WorkDateRanges[0].ID)
}

func TestUpdateNotFound(t *testing.T) {
	s := New(newFakeRemote())
	title := "x"
	_, err := s.Update(context.Background(), "missing", models.AssignmentPatch{Title: &title})

	assert.True(t, client.IsNotFound(err))
	assert.Equal(t, "Assignment not found", s.Err())
	_, ok := s.Get("missing")
	assert.False(t, ok, "update must not insert unknown assignments")
}

func TestToggleCompletion(t *testing.T) {
	remote := newFakeRemote()
	remote.seed(models.Assignment{ID: "x", Title: "Essay"})
	s := New(remote)
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.ToggleCompletion(context.Background(), "x"))
	got, _ := s.Get("x")
	assert.True(t, got.Completed)

	require.NoError(t, s.ToggleCompletion(context.Background(), "x"))
	got, _ = s.Get("x")
	assert.False(t, got.Completed)

	assert.NoError(t, s.ToggleCompletion(context.Background(), "absent"))
}

func TestRemoveEvicts(t *testing.T) {
	remote := newFakeRemote()
	remote.seed(models.Assignment{ID: "x"})
	remote.seed(models.Assignment{ID: "y"})
	s := New(remote)
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.Remove(context.Background(), "x"))
	all := s.All()
	require.Len(t, all, 1)
	assert.Equal(t, "y", all[0].ID)

	err := s.Remove(context.Background(), "x")
	assert.True(t, client.IsNotFound(err))
	assert.Len(t, s.All(), 1)
}

func TestWorkRanges(t *testing.T) {
	remote := newFakeRemote()
	remote.seed(models.Assignment{ID: "x"},
		models.WorkDateRange{ID: "r0", AssignmentID: "x", StartDate: day(10), EndDate: day(12)})
	remote.seed(models.Assignment{ID: "y"},
		models.WorkDateRange{ID: "ry", AssignmentID: "y", StartDate: day(5), EndDate: day(8)})
	s := New(remote)
	require.NoError(t, s.Load(context.Background()))

	r, err := s.AddWorkRange(context.Background(), "x", day(5), day(8))
	require.NoError(t, err)
	assert.Equal(t, "x", r.AssignmentID)

	x, _ := s.Get("x")
	require.Len(t, x.WorkDateRanges, 2)
	assert.Equal(t, r.ID, x.WorkDateRanges[0].ID, "ranges stay ordered by start date")

	require.NoError(t, s.RemoveWorkRange(context.Background(), "x", r.ID))
	x, _ = s.Get("x")
	require.Len(t, x.WorkDateRanges, 1)
	assert.Equal(t, "r0", x.WorkDateRanges[0].ID)

	y, _ := s.Get("y")
	require.Len(t, y.WorkDateRanges, 1, "other assignments are untouched")

	remote.failNext = &client.TransportError{Status: 400, Message: "End date cannot be before start date"}
	_, err = s.AddWorkRange(context.Background(), "x", day(8), day(5))
	require.Error(t, err)
	assert.Equal(t, "End date cannot be before start date", s.Err())
}

func TestAllReturnsCopies(t *testing.T) {
	remote := newFakeRemote()
	remote.seed(models.Assignment{ID: "x", Title: "Essay"},
		models.WorkDateRange{ID: "r1", AssignmentID: "x"})
	s := New(remote)
	require.NoError(t, s.Load(context.Background()))

	all := s.All()
	all[0].Title = "changed"
	all[0].WorkDateRanges[0].ID = "changed"

	got, _ := s.Get("x")
	assert.Equal(t, "Essay", got.Title)
	assert.Equal(t, "r1", got.WorkDateRanges[0].ID)
}

func TestProjectAndStats(t *testing.T) {
	remote := newFakeRemote()
	remote.seed(models.Assignment{ID: "a", DueDate: day(20), Priority: models.PriorityHigh, Completed: true})
	remote.seed(models.Assignment{ID: "b", DueDate: day(10), Priority: models.PriorityMedium})
	remote.seed(models.Assignment{ID: "c", DueDate: day(15), Priority: models.PriorityLow})
	s := New(remote)
	require.NoError(t, s.Load(context.Background()))

	list := s.Project(filter.DefaultOptions())
	require.Len(t, list, 3)
	assert.Equal(t, "b", list[0].ID)

	st := s.Stats()
	assert.Equal(t, Stats{Total: 3, Completed: 1, Percent: 33}, st)
	assert.Equal(t, Stats{}, New(newFakeRemote()).Stats())
}

func TestConcurrentMutations(t *testing.T) {
	remote := newFakeRemote()
	s := New(remote)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, err := s.Add(context.Background(), models.NewAssignment{Title: fmt.Sprintf("t%d", i), DueDate: day(20)})
			if err != nil {
				return
			}
			_ = s.ToggleCompletion(context.Background(), a.ID)
		}(i)
	}
	wg.Wait()

	st := s.Stats()
	assert.Equal(t, 20, st.Total)
	assert.Equal(t, 20, st.Completed)
}
