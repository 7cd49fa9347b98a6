// Package services orchestrates record writes across the store and the
// AMQP event stream.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"pointage/internal/amqp"
	"pointage/internal/core"
	applog "pointage/internal/log"
	"pointage/internal/store"
)

// RecordService wraps a store and publishes a change event after every
// successful write. Publishing is best-effort: a broker failure never
// fails the request, the record is already saved locally.
type RecordService struct {
	store      store.Store
	amqpClient *amqp.Client
	slog       *applog.StructuredLogger
}

func NewRecordService(st store.Store, amqpClient *amqp.Client) *RecordService {
	logger := applog.New(applog.Config{
		Level:     applog.DefaultConfig().Level,
		Component: applog.ComponentStore,
	})
	return &RecordService{
		store:      st,
		amqpClient: amqpClient,
		slog:       applog.NewStructuredLogger(logger),
	}
}

func (s *RecordService) Store() store.Store {
	return s.store
}

func (s *RecordService) CreateEmployee(ctx context.Context, e core.Employee) (core.Employee, error) {
	created, err := s.store.CreateEmployee(ctx, e)
	if err != nil {
		return core.Employee{}, fmt.Errorf("create employee: %w", err)
	}
	s.publish(ctx, amqp.KindEmployee, created.ID, amqp.ActionCreated)
	return created, nil
}

func (s *RecordService) UpdateEmployee(ctx context.Context, e core.Employee) (core.Employee, error) {
	updated, err := s.store.UpdateEmployee(ctx, e)
	if err != nil {
		return core.Employee{}, fmt.Errorf("update employee: %w", err)
	}
	s.publish(ctx, amqp.KindEmployee, updated.ID, amqp.ActionUpdated)
	return updated, nil
}

func (s *RecordService) DeleteEmployee(ctx context.Context, id string) error {
	if err := s.store.DeleteEmployee(ctx, id); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	s.publish(ctx, amqp.KindEmployee, id, amqp.ActionDeleted)
	return nil
}

func (s *RecordService) CreateClient(ctx context.Context, c core.Client) (core.Client, error) {
	created, err := s.store.CreateClient(ctx, c)
	if err != nil {
		return core.Client{}, fmt.Errorf("create client: %w", err)
	}
	s.publish(ctx, amqp.KindClient, created.ID, amqp.ActionCreated)
	return created, nil
}

func (s *RecordService) UpdateClient(ctx context.Context, c core.Client) (core.Client, error) {
	updated, err := s.store.UpdateClient(ctx, c)
	if err != nil {
		return core.Client{}, fmt.Errorf("update client: %w", err)
	}
	s.publish(ctx, amqp.KindClient, updated.ID, amqp.ActionUpdated)
	return updated, nil
}

func (s *RecordService) DeleteClient(ctx context.Context, id string) error {
	if err := s.store.DeleteClient(ctx, id); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	s.publish(ctx, amqp.KindClient, id, amqp.ActionDeleted)
	return nil
}

func (s *RecordService) CreateEntry(ctx context.Context, e core.TimeEntry) (core.TimeEntry, error) {
	created, err := s.store.CreateEntry(ctx, e)
	if err != nil {
		return core.TimeEntry{}, fmt.Errorf("create entry: %w", err)
	}
	s.publish(ctx, amqp.KindTimeEntry, created.ID, amqp.ActionCreated)
	return created, nil
}

func (s *RecordService) UpdateEntry(ctx context.Context, e core.TimeEntry) (core.TimeEntry, error) {
	updated, err := s.store.UpdateEntry(ctx, e)
	if err != nil {
		return core.TimeEntry{}, fmt.Errorf("update entry: %w", err)
	}
	s.publish(ctx, amqp.KindTimeEntry, updated.ID, amqp.ActionUpdated)
	return updated, nil
}

func (s *RecordService) DeleteEntry(ctx context.Context, id string) error {
	if err := s.store.DeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	s.publish(ctx, amqp.KindTimeEntry, id, amqp.ActionDeleted)
	return nil
}

func (s *RecordService) publish(ctx context.Context, kind, recordID, action string) {
	s.slog.LogRecordWrite(ctx, action, kind, recordID)

	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not configured, skipping change event",
			"kind", kind, "action", action)
		return
	}

	if err := s.amqpClient.PublishChange(ctx, kind, recordID, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change event",
			"kind", kind,
			"record_id", recordID,
			"action", action,
			"error", err)
	}
}

// Close releases the AMQP connection. The store is owned by the caller.
func (s *RecordService) Close() error {
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			return fmt.Errorf("close amqp client: %w", err)
		}
	}
	return nil
}
