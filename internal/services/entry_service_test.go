package services

import (
	"context"
	"errors"
	"testing"

	"pointage/internal/core"
	"pointage/internal/store"
	"pointage/internal/store/memory"
)

func newService(t *testing.T) *RecordService {
	t.Helper()
	return NewRecordService(memory.New(), nil) // nil AMQP client: publish is skipped
}

func TestCreateEntryPersistsWithNilBroker(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	emp, err := svc.CreateEmployee(ctx, core.Employee{Name: "Lamine", Title: "Consultant RH"})
	if err != nil {
		t.Fatalf("CreateEmployee() error = %v", err)
	}
	cli, err := svc.CreateClient(ctx, core.Client{Name: "Acme"})
	if err != nil {
		t.Fatalf("CreateClient() error = %v", err)
	}

	entry := core.TimeEntry{
		Date:         mustDate(t, "2024-03-01"),
		EmployeeID:   emp.ID,
		ClientID:     cli.ID,
		SubjectHours: map[string]float64{"HSE": 2},
	}
	created, err := svc.CreateEntry(ctx, entry)
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated entry ID")
	}

	entries, err := svc.Store().ListEntries(ctx)
	if err != nil {
		t.Fatalf("ListEntries() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
}

func TestUpdateEntryNotFound(t *testing.T) {
	svc := newService(t)

	_, err := svc.UpdateEntry(context.Background(), core.TimeEntry{
		ID:           "missing",
		Date:         mustDate(t, "2024-03-01"),
		EmployeeID:   "e1",
		ClientID:     "c1",
		SubjectHours: map[string]float64{"HSE": 1},
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteEmployeePublishesAfterStoreWrite(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	emp, err := svc.CreateEmployee(ctx, core.Employee{Name: "Fatou", Title: "Chargée RH"})
	if err != nil {
		t.Fatalf("CreateEmployee() error = %v", err)
	}
	if err := svc.DeleteEmployee(ctx, emp.ID); err != nil {
		t.Fatalf("DeleteEmployee() error = %v", err)
	}
	if err := svc.DeleteEmployee(ctx, emp.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q) error = %v", s, err)
	}
	return d
}
