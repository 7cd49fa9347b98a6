package amqp

import (
	"encoding/json"
	"time"
)

// Actions carried by change events.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Record kinds carried by change events, named after the store collections.
const (
	KindEmployee  = "employees"
	KindClient    = "clients"
	KindTimeEntry = "timeEntries"
)

// ChangeEvent is a lightweight message announcing a write to the entry
// store. It carries only the record's coordinates; consumers fetch what
// they need themselves.
type ChangeEvent struct {
	Kind      string    `json:"kind"`
	RecordID  string    `json:"recordId"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChangeEvent creates an event stamped with the current time.
func NewChangeEvent(kind, recordID, action string) *ChangeEvent {
	return &ChangeEvent{
		Kind:      kind,
		RecordID:  recordID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (m *ChangeEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeEventFromJSON decodes an event from JSON bytes.
func ChangeEventFromJSON(data []byte) (*ChangeEvent, error) {
	var msg ChangeEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
