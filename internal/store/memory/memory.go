// Package memory is the in-memory entry store used for local development
// and tests. It can seed itself from JSON files in a data directory.
package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"pointage/internal/core"
	"pointage/internal/store"
)

type Store struct {
	mu        sync.Mutex
	employees []core.Employee
	clients   []core.Client
	entries   []core.TimeEntry
	audit     []store.AuditRecord
}

func New() *Store {
	return &Store{}
}

// NewFromFiles seeds the store from employees.json, clients.json and
// time_entries.json under base. Missing or malformed files are skipped.
func NewFromFiles(base string) *Store {
	s := New()
	readJSON(filepath.Join(base, "employees.json"), &s.employees)
	readJSON(filepath.Join(base, "clients.json"), &s.clients)
	readJSON(filepath.Join(base, "time_entries.json"), &s.entries)
	for i := range s.employees {
		if s.employees[i].ID == "" {
			s.employees[i].ID = uuid.NewString()
		}
	}
	for i := range s.clients {
		if s.clients[i].ID == "" {
			s.clients[i].ID = uuid.NewString()
		}
	}
	for i := range s.entries {
		if s.entries[i].ID == "" {
			s.entries[i].ID = uuid.NewString()
		}
	}
	return s
}

func readJSON(path string, v any) {
	b, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = json.Unmarshal(b, v)
}

func (s *Store) ListEmployees(_ context.Context) ([]core.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Employee(nil), s.employees...), nil
}

func (s *Store) CreateEmployee(_ context.Context, e core.Employee) (core.Employee, error) {
	if err := e.Validate(); err != nil {
		return core.Employee{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = uuid.NewString()
	s.employees = append(s.employees, e)
	return e, nil
}

func (s *Store) UpdateEmployee(_ context.Context, e core.Employee) (core.Employee, error) {
	if err := e.Validate(); err != nil {
		return core.Employee{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.employees {
		if s.employees[i].ID == e.ID {
			s.employees[i] = e
			return e, nil
		}
	}
	return core.Employee{}, store.ErrNotFound
}

func (s *Store) DeleteEmployee(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.employees {
		if s.employees[i].ID == id {
			s.employees = append(s.employees[:i], s.employees[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ListClients(_ context.Context) ([]core.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Client(nil), s.clients...), nil
}

func (s *Store) CreateClient(_ context.Context, c core.Client) (core.Client, error) {
	if err := c.Validate(); err != nil {
		return core.Client{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = uuid.NewString()
	s.clients = append(s.clients, c)
	return c, nil
}

func (s *Store) UpdateClient(_ context.Context, c core.Client) (core.Client, error) {
	if err := c.Validate(); err != nil {
		return core.Client{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.clients {
		if s.clients[i].ID == c.ID {
			s.clients[i] = c
			return c, nil
		}
	}
	return core.Client{}, store.ErrNotFound
}

func (s *Store) DeleteClient(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.clients {
		if s.clients[i].ID == id {
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ListEntries(_ context.Context) ([]core.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.TimeEntry, len(s.entries))
	for i, e := range s.entries {
		out[i] = cloneEntry(e)
	}
	return out, nil
}

func (s *Store) CreateEntry(_ context.Context, e core.TimeEntry) (core.TimeEntry, error) {
	if err := e.Validate(); err != nil {
		return core.TimeEntry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = uuid.NewString()
	s.entries = append(s.entries, cloneEntry(e))
	return e, nil
}

func (s *Store) UpdateEntry(_ context.Context, e core.TimeEntry) (core.TimeEntry, error) {
	if err := e.Validate(); err != nil {
		return core.TimeEntry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == e.ID {
			s.entries[i] = cloneEntry(e)
			return e, nil
		}
	}
	return core.TimeEntry{}, store.ErrNotFound
}

func (s *Store) DeleteEntry(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) AppendAudit(_ context.Context, rec store.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, rec)
	return nil
}

// AuditTrail returns a copy of the recorded audit rows, oldest first.
func (s *Store) AuditTrail() []store.AuditRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]store.AuditRecord(nil), s.audit...)
}

// cloneEntry copies the subject map so callers cannot mutate stored state.
func cloneEntry(e core.TimeEntry) core.TimeEntry {
	if e.SubjectHours != nil {
		hours := make(map[string]float64, len(e.SubjectHours))
		for k, v := range e.SubjectHours {
			hours[k] = v
		}
		e.SubjectHours = hours
	}
	return e
}
