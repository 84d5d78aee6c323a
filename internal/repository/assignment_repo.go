package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"assignmenttracker/internal/database"
	"assignmenttracker/internal/models"
)

const assignmentColumns = "id, title, description, subject, due_date, start_date, priority, completed, created_at, updated_at"

// AssignmentRepository handles database operations for assignments
type AssignmentRepository struct {
	db database.DBTX
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db database.DBTX) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// With returns a copy of the repository that runs its queries on db,
// typically a transaction
func (r *AssignmentRepository) With(db database.DBTX) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (*models.Assignment, error) {
	var (
		a           models.Assignment
		description sql.NullString
		startDate   sql.NullTime
		priority    string
	)
	if err := row.Scan(
		&a.ID,
		&a.Title,
		&description,
		&a.Subject,
		&a.DueDate,
		&startDate,
		&priority,
		&a.Completed,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}

	a.Description = description.String
	a.Priority = models.Priority(priority)
	a.DueDate = a.DueDate.UTC()
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	if startDate.Valid {
		sd := startDate.Time.UTC()
		a.StartDate = &sd
	}
	a.WorkDateRanges = []models.WorkDateRange{}
	return &a, nil
}

// List returns every assignment, most recently created first
func (r *AssignmentRepository) List(ctx context.Context) ([]models.Assignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM assignments
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	assignments := []models.Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}

	return assignments, nil
}

// GetByID retrieves an assignment by ID, returning nil when it doesn't exist
func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := "SELECT " + assignmentColumns + " FROM assignments WHERE id = ?"
	a, err := scanAssignment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return a, nil
}

// Exists reports whether an assignment with id is stored
func (r *AssignmentRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM assignments WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return count > 0, nil
}

// Create inserts a fully populated assignment
func (r *AssignmentRepository) Create(ctx context.Context, a *models.Assignment) error {
	query := "INSERT INTO assignments (" + assignmentColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.Title,
		nullString(a.Description),
		a.Subject,
		a.DueDate,
		nullTime(a.StartDate),
		string(a.Priority),
		a.Completed,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

// Update writes every mutable column of a
func (r *AssignmentRepository) Update(ctx context.Context, a *models.Assignment) error {
	query := `
		UPDATE assignments
		SET title = ?, description = ?, subject = ?, due_date = ?, start_date = ?,
			priority = ?, completed = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		a.Title,
		nullString(a.Description),
		a.Subject,
		a.DueDate,
		nullTime(a.StartDate),
		string(a.Priority),
		a.Completed,
		a.UpdatedAt,
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	return nil
}

// Delete removes an assignment and reports whether it existed
func (r *AssignmentRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM assignments WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete assignment: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n > 0, nil
}

// DeleteAll removes every assignment; used when restoring a backup
func (r *AssignmentRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM assignments"); err != nil {
		return fmt.Errorf("failed to clear assignments: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
