package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"assignmenttracker/internal/database"
	"assignmenttracker/internal/models"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Initialize(filepath.Join(t.TempDir(), "repo.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newAssignment(id string, created time.Time) *models.Assignment {
	return &models.Assignment{
		ID:        id,
		Title:     "Assignment " + id,
		Subject:   "Math",
		DueDate:   created.AddDate(0, 0, 7),
		Priority:  models.PriorityMedium,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestAssignmentRepositoryCRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssignmentRepository(db)
	ctx := context.Background()

	created := time.Date(2024, time.June, 1, 9, 30, 0, 123000000, time.UTC)
	start := time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)
	a := newAssignment("a1", created)
	a.Description = "Chapter 5 exercises"
	a.StartDate = &start

	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "a1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetByID() returned nil for stored assignment")
	}
	if got.Title != a.Title || got.Description != a.Description || got.Subject != "Math" {
		t.Errorf("GetByID() = %+v", got)
	}
	if !got.CreatedAt.Equal(created) || !got.DueDate.Equal(a.DueDate) {
		t.Errorf("timestamps not preserved: created %v due %v", got.CreatedAt, got.DueDate)
	}
	if got.StartDate == nil || !got.StartDate.Equal(start) {
		t.Errorf("StartDate = %v, want %v", got.StartDate, start)
	}
	if got.Completed {
		t.Error("Completed should default to false")
	}

	got.Completed = true
	got.StartDate = nil
	got.Description = ""
	got.UpdatedAt = created.Add(time.Hour)
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	updated, err := repo.GetByID(ctx, "a1")
	if err != nil {
		t.Fatalf("GetByID() after update error = %v", err)
	}
	if !updated.Completed || updated.StartDate != nil || updated.Description != "" {
		t.Errorf("update not persisted: %+v", updated)
	}
	if !updated.UpdatedAt.Equal(created.Add(time.Hour)) {
		t.Errorf("UpdatedAt = %v", updated.UpdatedAt)
	}

	deleted, err := repo.Delete(ctx, "a1")
	if err != nil || !deleted {
		t.Fatalf("Delete() = %v, %v", deleted, err)
	}
	deleted, err = repo.Delete(ctx, "a1")
	if err != nil || deleted {
		t.Errorf("second Delete() = %v, %v, want false", deleted, err)
	}

	missing, err := repo.GetByID(ctx, "a1")
	if err != nil || missing != nil {
		t.Errorf("GetByID() on deleted = %v, %v", missing, err)
	}
}

func TestAssignmentRepositoryListOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssignmentRepository(db)
	ctx := context.Background()

	base := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "newest", "middle"} {
		offsets := []time.Duration{0, 2 * time.Hour, time.Hour}
		if err := repo.Create(ctx, newAssignment(id, base.Add(offsets[i]))); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := []string{"newest", "middle", "old"}
	if len(list) != len(want) {
		t.Fatalf("List() returned %d assignments, want %d", len(list), len(want))
	}
	for i, id := range want {
		if list[i].ID != id {
			t.Errorf("List()[%d] = %s, want %s", i, list[i].ID, id)
		}
	}
}

func TestWorkRangeRepository(t *testing.T) {
	db := setupTestDB(t)
	assignments := NewAssignmentRepository(db)
	ranges := NewWorkRangeRepository(db)
	ctx := context.Background()

	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	for _, id := range []string{"a1", "a2"} {
		if err := assignments.Create(ctx, newAssignment(id, now)); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}

	day := func(d int) time.Time { return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC) }
	inputs := []models.WorkDateRange{
		{ID: "r-late", AssignmentID: "a1", StartDate: day(10), EndDate: day(12)},
		{ID: "r-early", AssignmentID: "a1", StartDate: day(5), EndDate: day(8)},
		{ID: "r-other", AssignmentID: "a2", StartDate: day(2), EndDate: day(3)},
	}
	for i := range inputs {
		if err := ranges.Create(ctx, &inputs[i]); err != nil {
			t.Fatalf("Create(%s) error = %v", inputs[i].ID, err)
		}
	}

	list, err := ranges.ListByAssignment(ctx, "a1")
	if err != nil {
		t.Fatalf("ListByAssignment() error = %v", err)
	}
	if len(list) != 2 || list[0].ID != "r-early" || list[1].ID != "r-late" {
		t.Fatalf("ListByAssignment() = %+v, want r-early then r-late", list)
	}
	if !list[0].StartDate.Equal(day(5)) || !list[0].EndDate.Equal(day(8)) {
		t.Errorf("dates not preserved: %+v", list[0])
	}

	empty, err := ranges.ListByAssignment(ctx, "unknown")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("ListByAssignment(unknown) = %v, %v, want empty list", empty, err)
	}

	all, err := ranges.ListAll(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("ListAll() = %d ranges, %v", len(all), err)
	}

	deleted, err := ranges.Delete(ctx, "r-early")
	if err != nil || !deleted {
		t.Fatalf("Delete() = %v, %v", deleted, err)
	}
	list, _ = ranges.ListByAssignment(ctx, "a1")
	if len(list) != 1 || list[0].ID != "r-late" {
		t.Errorf("after delete: %+v", list)
	}

	if err := ranges.DeleteByAssignment(ctx, "a1"); err != nil {
		t.Fatalf("DeleteByAssignment() error = %v", err)
	}
	all, _ = ranges.ListAll(ctx)
	if len(all) != 1 || all[0].ID != "r-other" {
		t.Errorf("DeleteByAssignment removed too much: %+v", all)
	}
}

func TestRepositoryInTransaction(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssignmentRepository(db)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *database.Tx) error {
		return repo.With(tx).Create(ctx, newAssignment("tx", time.Now().UTC()))
	})
	if err != nil {
		t.Fatalf("WithTx() error = %v", err)
	}

	exists, err := repo.Exists(ctx, "tx")
	if err != nil || !exists {
		t.Errorf("Exists() = %v, %v after commit", exists, err)
	}
}
