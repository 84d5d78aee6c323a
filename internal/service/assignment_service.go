package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"assignmenttracker/internal/database"
	"assignmenttracker/internal/models"
	"assignmenttracker/internal/repository"
	"assignmenttracker/internal/validation"
)

// AssignmentService handles assignment business logic
type AssignmentService struct {
	db          *database.DB
	assignments *repository.AssignmentRepository
	ranges      *repository.WorkRangeRepository
	now         func() time.Time
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(db *database.DB) *AssignmentService {
	return &AssignmentService{
		db:          db,
		assignments: repository.NewAssignmentRepository(db),
		ranges:      repository.NewWorkRangeRepository(db),
		now:         time.Now,
	}
}

// storedTime is the precision and zone every timestamp is persisted with,
// matching what the wire format can carry.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// List returns every assignment, newest first. Work ranges are not attached.
func (s *AssignmentService) List(ctx context.Context) ([]models.Assignment, error) {
	return s.assignments.List(ctx)
}

// Get returns one assignment or ErrNotFound
func (s *AssignmentService) Get(ctx context.Context, id string) (*models.Assignment, error) {
	a, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// Create validates the input, assigns an ID and timestamps, and stores it
func (s *AssignmentService) Create(ctx context.Context, input models.NewAssignment) (*models.Assignment, error) {
	if err := validation.ValidateNewAssignment(&input); err != nil {
		return nil, err
	}

	now := storedTime(s.now())
	a := &models.Assignment{
		ID:             uuid.NewString(),
		Title:          input.Title,
		Description:    input.Description,
		Subject:        input.Subject,
		DueDate:        storedTime(input.DueDate),
		Priority:       input.Priority,
		Completed:      input.Completed,
		WorkDateRanges: []models.WorkDateRange{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if input.StartDate != nil {
		sd := storedTime(*input.StartDate)
		a.StartDate = &sd
	}

	if err := s.assignments.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update merges patch into the stored assignment, validates the result and
// writes it back with a fresh updated_at. The read and write share one
// transaction so a concurrent delete can't be resurrected.
func (s *AssignmentService) Update(ctx context.Context, id string, patch models.AssignmentPatch) (*models.Assignment, error) {
	if patch.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	var updated *models.Assignment
	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		repo := s.assignments.With(tx)

		a, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return ErrNotFound
		}

		patch.Apply(a)
		a.Title = strings.TrimSpace(a.Title)
		a.Subject = strings.TrimSpace(a.Subject)
		a.Description = strings.TrimSpace(a.Description)
		a.DueDate = storedTime(a.DueDate)
		if a.StartDate != nil {
			sd := storedTime(*a.StartDate)
			a.StartDate = &sd
		}
		if err := validation.ValidateAssignment(*a); err != nil {
			return err
		}

		a.UpdatedAt = storedTime(s.now())
		if err := repo.Update(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an assignment together with its work ranges
func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	return s.db.WithTx(ctx, func(tx *database.Tx) error {
		if err := s.ranges.With(tx).DeleteByAssignment(ctx, id); err != nil {
			return err
		}
		deleted, err := s.assignments.With(tx).Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotFound
		}
		return nil
	})
}

// ListWithRanges returns every assignment with its work ranges attached
func (s *AssignmentService) ListWithRanges(ctx context.Context) ([]models.Assignment, error) {
	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return nil, err
	}
	ranges, err := s.ranges.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byAssignment := make(map[string][]models.WorkDateRange)
	for _, r := range ranges {
		byAssignment[r.AssignmentID] = append(byAssignment[r.AssignmentID], r)
	}
	for i := range assignments {
		if rs, ok := byAssignment[assignments[i].ID]; ok {
			assignments[i].WorkDateRanges = rs
		}
	}
	return assignments, nil
}
