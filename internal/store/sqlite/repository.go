// Package sqlite is the persistent entry store. Records are stored as
// rows with opaque uuid ids; the per-entry subject breakdown is kept as a
// JSON column since it is only ever read back whole.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"pointage/internal/core"
	"pointage/internal/store"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) ListEmployees(ctx context.Context) ([]core.Employee, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, title FROM employees ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var out []core.Employee
	for rows.Next() {
		var e core.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Title); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) CreateEmployee(ctx context.Context, e core.Employee) (core.Employee, error) {
	if err := e.Validate(); err != nil {
		return core.Employee{}, err
	}
	e.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO employees (id, name, title) VALUES (?, ?, ?)`,
		e.ID, e.Name, e.Title)
	if err != nil {
		return core.Employee{}, fmt.Errorf("create employee: %w", err)
	}
	slog.InfoContext(ctx, "Employee created", "id", e.ID, "name", e.Name)
	return e, nil
}

func (r *Repository) UpdateEmployee(ctx context.Context, e core.Employee) (core.Employee, error) {
	if err := e.Validate(); err != nil {
		return core.Employee{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE employees SET name = ?, title = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now') WHERE id = ?`,
		e.Name, e.Title, e.ID)
	if err != nil {
		return core.Employee{}, fmt.Errorf("update employee: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Employee{}, store.ErrNotFound
	}
	return e, nil
}

func (r *Repository) DeleteEmployee(ctx context.Context, id string) error {
	// Entries referencing the employee stay; orphans are tolerated.
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) ListClients(ctx context.Context) ([]core.Client, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM clients ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []core.Client
	for rows.Next() {
		var c core.Client
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) CreateClient(ctx context.Context, c core.Client) (core.Client, error) {
	if err := c.Validate(); err != nil {
		return core.Client{}, err
	}
	c.ID = uuid.NewString()
	if _, err := r.db.ExecContext(ctx, `INSERT INTO clients (id, name) VALUES (?, ?)`, c.ID, c.Name); err != nil {
		return core.Client{}, fmt.Errorf("create client: %w", err)
	}
	slog.InfoContext(ctx, "Client created", "id", c.ID, "name", c.Name)
	return c, nil
}

func (r *Repository) UpdateClient(ctx context.Context, c core.Client) (core.Client, error) {
	if err := c.Validate(); err != nil {
		return core.Client{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE clients SET name = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now') WHERE id = ?`,
		c.Name, c.ID)
	if err != nil {
		return core.Client{}, fmt.Errorf("update client: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Client{}, store.ErrNotFound
	}
	return c, nil
}

func (r *Repository) DeleteClient(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) ListEntries(ctx context.Context) ([]core.TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, entry_date, employee_id, client_id, subject_hours FROM time_entries ORDER BY entry_date, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var out []core.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) CreateEntry(ctx context.Context, e core.TimeEntry) (core.TimeEntry, error) {
	if err := e.Validate(); err != nil {
		return core.TimeEntry{}, err
	}
	e.ID = uuid.NewString()
	hours, err := json.Marshal(e.SubjectHours)
	if err != nil {
		return core.TimeEntry{}, fmt.Errorf("marshal subject hours: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO time_entries (id, entry_date, employee_id, client_id, subject_hours) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Date.String(), e.EmployeeID, e.ClientID, string(hours))
	if err != nil {
		return core.TimeEntry{}, fmt.Errorf("create entry: %w", err)
	}
	slog.InfoContext(ctx, "Time entry created",
		"id", e.ID,
		"date", e.Date.String(),
		"employee_id", e.EmployeeID,
		"client_id", e.ClientID,
		"total_hours", e.TotalHours())
	return e, nil
}

func (r *Repository) UpdateEntry(ctx context.Context, e core.TimeEntry) (core.TimeEntry, error) {
	if err := e.Validate(); err != nil {
		return core.TimeEntry{}, err
	}
	hours, err := json.Marshal(e.SubjectHours)
	if err != nil {
		return core.TimeEntry{}, fmt.Errorf("marshal subject hours: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE time_entries
		 SET entry_date = ?, employee_id = ?, client_id = ?, subject_hours = ?,
		     updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		 WHERE id = ?`,
		e.Date.String(), e.EmployeeID, e.ClientID, string(hours), e.ID)
	if err != nil {
		return core.TimeEntry{}, fmt.Errorf("update entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.TimeEntry{}, store.ErrNotFound
	}
	return e, nil
}

func (r *Repository) DeleteEntry(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) AppendAudit(ctx context.Context, rec store.AuditRecord) error {
	at := rec.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (record_kind, record_id, action, happened_at) VALUES (?, ?, ?, ?)`,
		rec.Kind, rec.RecordID, rec.Action, at.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("append audit: %w", err)
	}
	return nil
}

func scanEntry(rows *sql.Rows) (core.TimeEntry, error) {
	var (
		e        core.TimeEntry
		dateStr  string
		hoursStr string
	)
	if err := rows.Scan(&e.ID, &dateStr, &e.EmployeeID, &e.ClientID, &hoursStr); err != nil {
		return core.TimeEntry{}, fmt.Errorf("scan entry: %w", err)
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.TimeEntry{}, fmt.Errorf("parse entry date %q: %w", dateStr, err)
	}
	e.Date = date
	if err := json.Unmarshal([]byte(hoursStr), &e.SubjectHours); err != nil {
		return core.TimeEntry{}, fmt.Errorf("unmarshal subject hours: %w", err)
	}
	return e, nil
}
