package repository

import (
	"context"
	"fmt"

	"assignmenttracker/internal/database"
	"assignmenttracker/internal/models"
)

// WorkRangeRepository handles database operations for work date ranges
type WorkRangeRepository struct {
	db database.DBTX
}

// NewWorkRangeRepository creates a new work range repository
func NewWorkRangeRepository(db database.DBTX) *WorkRangeRepository {
	return &WorkRangeRepository{db: db}
}

// With returns a copy of the repository that runs its queries on db
func (r *WorkRangeRepository) With(db database.DBTX) *WorkRangeRepository {
	return &WorkRangeRepository{db: db}
}

func (r *WorkRangeRepository) query(ctx context.Context, query string, args ...any) ([]models.WorkDateRange, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query work ranges: %w", err)
	}
	defer rows.Close()

	ranges := []models.WorkDateRange{}
	for rows.Next() {
		var wr models.WorkDateRange
		if err := rows.Scan(&wr.ID, &wr.AssignmentID, &wr.StartDate, &wr.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan work range: %w", err)
		}
		wr.StartDate = wr.StartDate.UTC()
		wr.EndDate = wr.EndDate.UTC()
		ranges = append(ranges, wr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate work ranges: %w", err)
	}

	return ranges, nil
}

// ListByAssignment returns the ranges of one assignment ordered by start date
func (r *WorkRangeRepository) ListByAssignment(ctx context.Context, assignmentID string) ([]models.WorkDateRange, error) {
	return r.query(ctx, `
		SELECT id, assignment_id, start_date, end_date
		FROM work_date_ranges
		WHERE assignment_id = ?
		ORDER BY start_date ASC, id ASC
	`, assignmentID)
}

// ListAll returns every stored range ordered by assignment, then start date
func (r *WorkRangeRepository) ListAll(ctx context.Context) ([]models.WorkDateRange, error) {
	return r.query(ctx, `
		SELECT id, assignment_id, start_date, end_date
		FROM work_date_ranges
		ORDER BY assignment_id ASC, start_date ASC, id ASC
	`)
}

// Create inserts a work range
func (r *WorkRangeRepository) Create(ctx context.Context, wr *models.WorkDateRange) error {
	query := "INSERT INTO work_date_ranges (id, assignment_id, start_date, end_date) VALUES (?, ?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, wr.ID, wr.AssignmentID, wr.StartDate.UTC(), wr.EndDate.UTC()); err != nil {
		return fmt.Errorf("failed to create work range: %w", err)
	}
	return nil
}

// Delete removes one range and reports whether it existed
func (r *WorkRangeRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM work_date_ranges WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete work range: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n > 0, nil
}

// DeleteByAssignment removes every range of an assignment
func (r *WorkRangeRepository) DeleteByAssignment(ctx context.Context, assignmentID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM work_date_ranges WHERE assignment_id = ?", assignmentID); err != nil {
		return fmt.Errorf("failed to delete work ranges: %w", err)
	}
	return nil
}
