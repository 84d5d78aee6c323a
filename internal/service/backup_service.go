package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"assignmenttracker/internal/database"
	"assignmenttracker/internal/models"
	"assignmenttracker/internal/repository"
)

const backupVersion = "1.0"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string             `json:"version"`
	ExportedAt   time.Time          `json:"exported_at"`
	DatabaseType string             `json:"database_type"`
	Assignments  []AssignmentBackup `json:"assignments"`
	WorkRanges   []WorkRangeBackup  `json:"work_ranges"`
}

// AssignmentBackup represents an assignment record for backup
type AssignmentBackup struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Subject     string     `json:"subject"`
	DueDate     time.Time  `json:"due_date"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	Priority    string     `json:"priority"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// WorkRangeBackup represents a work range record for backup
type WorkRangeBackup struct {
	ID           string    `json:"id"`
	AssignmentID string    `json:"assignment_id"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db          *database.DB
	assignments *repository.AssignmentRepository
	ranges      *repository.WorkRangeRepository
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{
		db:          db,
		assignments: repository.NewAssignmentRepository(db),
		ranges:      repository.NewWorkRangeRepository(db),
	}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	log.Println("Starting database export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	backup, err := s.ExportToWriter(ctx, file)
	if err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	log.Printf("Exported: %d assignments, %d work ranges", len(backup.Assignments), len(backup.WorkRanges))
	return nil
}

// ExportToWriter writes the backup as indented JSON and returns what was written
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) (*BackupData, error) {
	backup, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return backup, nil
}

// ExportToDir writes a timestamped backup file into dir and returns its path.
// Used by the scheduled backup job.
func (s *BackupService) ExportToDir(ctx context.Context, dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	path := filepath.Join(dir, "assignments-"+now.UTC().Format("20060102-150405")+".json")
	if err := s.Export(ctx, path); err != nil {
		return "", err
	}
	return path, nil
}

func (s *BackupService) snapshot(ctx context.Context) (*BackupData, error) {
	backup := &BackupData{
		Version:      backupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.db.Dialect.Name(),
		Assignments:  []AssignmentBackup{},
		WorkRanges:   []WorkRangeBackup{},
	}

	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export assignments: %w", err)
	}
	for _, a := range assignments {
		backup.Assignments = append(backup.Assignments, AssignmentBackup{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Subject:     a.Subject,
			DueDate:     a.DueDate,
			StartDate:   a.StartDate,
			Priority:    string(a.Priority),
			Completed:   a.Completed,
			CreatedAt:   a.CreatedAt,
			UpdatedAt:   a.UpdatedAt,
		})
	}

	ranges, err := s.ranges.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export work ranges: %w", err)
	}
	for _, r := range ranges {
		backup.WorkRanges = append(backup.WorkRanges, WorkRangeBackup{
			ID:           r.ID,
			AssignmentID: r.AssignmentID,
			StartDate:    r.StartDate,
			EndDate:      r.EndDate,
		})
	}

	return backup, nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file)
}

// ImportFromReader replaces the stored data with the backup read from reader.
// The whole restore runs in one transaction.
func (s *BackupService) ImportFromReader(ctx context.Context, reader io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		assignments := s.assignments.With(tx)
		ranges := s.ranges.With(tx)

		// Work ranges go first so restores don't depend on cascading deletes
		if _, err := tx.ExecContext(ctx, "DELETE FROM work_date_ranges"); err != nil {
			return fmt.Errorf("failed to clear work ranges: %w", err)
		}
		if err := assignments.DeleteAll(ctx); err != nil {
			return err
		}

		for _, b := range backup.Assignments {
			a := &models.Assignment{
				ID:          b.ID,
				Title:       b.Title,
				Description: b.Description,
				Subject:     b.Subject,
				DueDate:     b.DueDate,
				StartDate:   b.StartDate,
				Priority:    models.Priority(b.Priority),
				Completed:   b.Completed,
				CreatedAt:   b.CreatedAt,
				UpdatedAt:   b.UpdatedAt,
			}
			if !a.Priority.Valid() {
				a.Priority = models.PriorityMedium
			}
			if err := assignments.Create(ctx, a); err != nil {
				return fmt.Errorf("failed to import assignment %s: %w", b.ID, err)
			}
		}

		for _, b := range backup.WorkRanges {
			wr := &models.WorkDateRange{
				ID:           b.ID,
				AssignmentID: b.AssignmentID,
				StartDate:    b.StartDate,
				EndDate:      b.EndDate,
			}
			if err := ranges.Create(ctx, wr); err != nil {
				return fmt.Errorf("failed to import work range %s: %w", b.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("Database import completed successfully: %d assignments, %d work ranges",
		len(backup.Assignments), len(backup.WorkRanges))
	return nil
}
