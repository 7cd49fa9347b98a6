// Package worker consumes store change events and appends them to the
// audit trail.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"pointage/internal/amqp"
	"pointage/internal/store"
)

// AuditWorker turns each ChangeEvent into one audit_log row. Delivery is
// at-least-once, so a replayed event may append a duplicate row; the trail
// is append-only and readers tolerate that.
type AuditWorker struct {
	audit store.AuditWriter
}

func NewAuditWorker(audit store.AuditWriter) *AuditWorker {
	return &AuditWorker{audit: audit}
}

// HandleChangeEvent records a single change event.
func (w *AuditWorker) HandleChangeEvent(ctx context.Context, msg *amqp.ChangeEvent) error {
	slog.InfoContext(ctx, "Processing change event",
		"kind", msg.Kind,
		"record_id", msg.RecordID,
		"action", msg.Action)

	rec := store.AuditRecord{
		Kind:     msg.Kind,
		RecordID: msg.RecordID,
		Action:   msg.Action,
		At:       msg.Timestamp,
	}

	if err := w.audit.AppendAudit(ctx, rec); err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}

	return nil
}

// Run consumes change events until ctx is cancelled.
func (w *AuditWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeChanges(ctx, func(msg *amqp.ChangeEvent) error {
		return w.HandleChangeEvent(ctx, msg)
	})
}
