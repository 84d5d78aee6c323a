package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"assignmenttracker/internal/database"
	"assignmenttracker/internal/models"
	"assignmenttracker/internal/repository"
	"assignmenttracker/internal/validation"
)

// WorkRangeService handles the work periods planned for assignments
type WorkRangeService struct {
	db          *database.DB
	assignments *repository.AssignmentRepository
	ranges      *repository.WorkRangeRepository
}

// NewWorkRangeService creates a new work range service
func NewWorkRangeService(db *database.DB) *WorkRangeService {
	return &WorkRangeService{
		db:          db,
		assignments: repository.NewAssignmentRepository(db),
		ranges:      repository.NewWorkRangeRepository(db),
	}
}

// ListByAssignment returns the ranges of an assignment ordered by start date.
// An unknown assignment simply has no ranges.
func (s *WorkRangeService) ListByAssignment(ctx context.Context, assignmentID string) ([]models.WorkDateRange, error) {
	return s.ranges.ListByAssignment(ctx, assignmentID)
}

// Create adds an inclusive [start, end] work period to an assignment.
// Returns ErrNotFound when the assignment doesn't exist.
func (s *WorkRangeService) Create(ctx context.Context, assignmentID string, start, end time.Time) (*models.WorkDateRange, error) {
	if err := validation.ValidateWorkRange(start, end); err != nil {
		return nil, err
	}

	wr := &models.WorkDateRange{
		ID:           uuid.NewString(),
		AssignmentID: assignmentID,
		StartDate:    storedTime(start),
		EndDate:      storedTime(end),
	}

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		exists, err := s.assignments.With(tx).Exists(ctx, assignmentID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return s.ranges.With(tx).Create(ctx, wr)
	})
	if err != nil {
		return nil, err
	}
	return wr, nil
}

// Delete removes a single work range
func (s *WorkRangeService) Delete(ctx context.Context, id string) error {
	deleted, err := s.ranges.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
