package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pointage/internal/amqp"
	"pointage/internal/store/memory"
)

func TestHandleChangeEventAppendsAudit(t *testing.T) {
	st := memory.New()
	w := NewAuditWorker(st)

	msg := &amqp.ChangeEvent{
		Kind:      amqp.KindTimeEntry,
		RecordID:  "e-1",
		Action:    amqp.ActionCreated,
		Timestamp: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, w.HandleChangeEvent(context.Background(), msg))

	trail := st.AuditTrail()
	require.Len(t, trail, 1)
	assert.Equal(t, amqp.KindTimeEntry, trail[0].Kind)
	assert.Equal(t, "e-1", trail[0].RecordID)
	assert.Equal(t, amqp.ActionCreated, trail[0].Action)
	assert.Equal(t, msg.Timestamp, trail[0].At)
}

func TestHandleChangeEventDuplicateAppendsTwice(t *testing.T) {
	st := memory.New()
	w := NewAuditWorker(st)

	msg := &amqp.ChangeEvent{
		Kind:      amqp.KindClient,
		RecordID:  "c-1",
		Action:    amqp.ActionDeleted,
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, w.HandleChangeEvent(context.Background(), msg))
	require.NoError(t, w.HandleChangeEvent(context.Background(), msg))

	assert.Len(t, st.AuditTrail(), 2)
}
