package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "TEXT_GENERATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// OperationCompleted builds the event emitted after a successful warehouse
// AI operation. Emission is best-effort everywhere; callers log and continue
// when publishing fails.
func OperationCompleted(operation string, recordID string, details map[string]interface{}) Event {
	data := map[string]interface{}{
		"record_id": recordID,
	}
	for k, v := range details {
		data[k] = v
	}
	return BaseEvent{
		Type:       operation,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
