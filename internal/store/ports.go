// Package store defines the ports to the entry store: fetch-all, create,
// update-by-id, delete-by-id for the three record kinds. Each fetch result
// is treated as a fully consistent snapshot at call time; no transactional
// guarantees are assumed, and deletes never cascade.
package store

import (
	"context"
	"errors"
	"time"

	"pointage/internal/core"
)

// ErrNotFound is returned by update and delete when no record has the id.
var ErrNotFound = errors.New("record not found")

type (
	EmployeeStore interface {
		ListEmployees(ctx context.Context) ([]core.Employee, error)
		CreateEmployee(ctx context.Context, e core.Employee) (core.Employee, error)
		UpdateEmployee(ctx context.Context, e core.Employee) (core.Employee, error)
		DeleteEmployee(ctx context.Context, id string) error
	}

	ClientStore interface {
		ListClients(ctx context.Context) ([]core.Client, error)
		CreateClient(ctx context.Context, c core.Client) (core.Client, error)
		UpdateClient(ctx context.Context, c core.Client) (core.Client, error)
		DeleteClient(ctx context.Context, id string) error
	}

	EntryStore interface {
		ListEntries(ctx context.Context) ([]core.TimeEntry, error)
		CreateEntry(ctx context.Context, e core.TimeEntry) (core.TimeEntry, error)
		UpdateEntry(ctx context.Context, e core.TimeEntry) (core.TimeEntry, error)
		DeleteEntry(ctx context.Context, id string) error
	}

	// AuditRecord is one row of the write trail appended by the worker.
	AuditRecord struct {
		Kind     string
		RecordID string
		Action   string
		At       time.Time
	}

	AuditWriter interface {
		AppendAudit(ctx context.Context, rec AuditRecord) error
	}

	// Store is the full entry-store surface the HTTP layer depends on.
	Store interface {
		EmployeeStore
		ClientStore
		EntryStore
	}
)

// FindEmployeeByName scans a snapshot for a case-exact name match. Used by
// the login upsert; linear scan is fine at this scale.
func FindEmployeeByName(employees []core.Employee, name string) (core.Employee, bool) {
	for _, e := range employees {
		if e.Name == name {
			return e, true
		}
	}
	return core.Employee{}, false
}
