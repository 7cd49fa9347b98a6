// Package backend selects and assembles the entry store at startup.
package backend

import (
	"context"

	"pointage/internal/services"
	"pointage/internal/store"
)

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// Result bundles the assembled store surface. Service wraps Store with
// change-event publishing; handlers write through Service and read from
// Store. Audit is nil when the backend keeps no trail.
type Result struct {
	Store   store.Store
	Service *services.RecordService
	Audit   store.AuditWriter
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Memory backend specific
	DataDirectory string
}

// Type names a storage backend.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
