package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"pointage/internal/core"
	"pointage/internal/store"
)

func TestEmployeeCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	created, err := s.CreateEmployee(ctx, core.Employee{Name: "Nadia", Title: "Consultante RH"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("create must assign an id")
	}

	list, err := s.ListEmployees(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Nadia" {
		t.Fatalf("unexpected list: %+v", list)
	}

	created.Title = "Directrice RH"
	updated, err := s.UpdateEmployee(ctx, created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Directrice RH" {
		t.Errorf("update not applied: %+v", updated)
	}

	if err := s.DeleteEmployee(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteEmployee(ctx, created.ID); err != store.ErrNotFound {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestCreateEmployeeValidates(t *testing.T) {
	_, err := New().CreateEmployee(context.Background(), core.Employee{Name: "", Title: "x"})
	if err != core.ErrEmptyName {
		t.Errorf("got %v, want ErrEmptyName", err)
	}
}

func TestEntryCRUDAndIsolation(t *testing.T) {
	ctx := context.Background()
	s := New()

	e := core.TimeEntry{
		Date:         core.NewDate(2024, 3, 1),
		EmployeeID:   "e1",
		ClientID:     "c1",
		SubjectHours: map[string]float64{"HSE": 2},
	}
	created, err := s.CreateEntry(ctx, e)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Mutating the caller's map must not leak into the store.
	e.SubjectHours["HSE"] = 99
	list, _ := s.ListEntries(ctx)
	if list[0].SubjectHours["HSE"] != 2 {
		t.Error("store shares the caller's subject map")
	}

	// Nor must mutating a listed snapshot.
	list[0].SubjectHours["HSE"] = 42
	again, _ := s.ListEntries(ctx)
	if again[0].SubjectHours["HSE"] != 2 {
		t.Error("listed entries share internal state")
	}

	if _, err := s.UpdateEntry(ctx, core.TimeEntry{
		ID: "missing", Date: core.NewDate(2024, 3, 1), EmployeeID: "e1", ClientID: "c1",
		SubjectHours: map[string]float64{"HSE": 1},
	}); err != store.ErrNotFound {
		t.Errorf("update missing: got %v, want ErrNotFound", err)
	}

	if err := s.DeleteEntry(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestCreateEntryRejectsInvalid(t *testing.T) {
	_, err := New().CreateEntry(context.Background(), core.TimeEntry{
		Date:         core.NewDate(2024, 3, 1),
		EmployeeID:   "e1",
		ClientID:     "c1",
		SubjectHours: map[string]float64{"HSE": 0},
	})
	if err != core.ErrNoHours {
		t.Errorf("got %v, want ErrNoHours", err)
	}
}

func TestNewFromFiles(t *testing.T) {
	dir := t.TempDir()
	seed := []core.Employee{{Name: "Karim", Title: "Consultant RH"}}
	b, _ := json.Marshal(seed)
	if err := os.WriteFile(filepath.Join(dir, "employees.json"), b, 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewFromFiles(dir)
	list, err := s.ListEmployees(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Karim" {
		t.Fatalf("unexpected seed result: %+v", list)
	}
	if list[0].ID == "" {
		t.Error("seeded employees must get ids assigned")
	}
}

func TestNewFromFilesMissingDir(t *testing.T) {
	s := NewFromFiles("does-not-exist")
	list, err := s.ListEmployees(context.Background())
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty store, got %v %v", list, err)
	}
}

func TestAppendAudit(t *testing.T) {
	s := New()
	rec := store.AuditRecord{Kind: "timeEntries", RecordID: "x", Action: "created"}
	if err := s.AppendAudit(context.Background(), rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	trail := s.AuditTrail()
	if len(trail) != 1 || trail[0].RecordID != "x" {
		t.Fatalf("unexpected trail: %+v", trail)
	}
}
