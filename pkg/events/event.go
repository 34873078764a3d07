// Package events defines the analytics events the chat service emits.
// Emission is best-effort; a failed publish never fails a request.
package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation the subscriber reconstructs
// wire messages into.
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

const (
	TypeChatCompleted = "CHAT_COMPLETED"
	TypeChatFailed    = "CHAT_FAILED"
	TypePlaceIngested = "PLACE_INGESTED"
)

// NewChatCompleted records one answered chat turn for analytics:
// which intent it resolved to, how long it took and whether any stage
// degraded. The question text itself is not included.
func NewChatCompleted(correlationID, sessionID, chatIntent, queryIntent string, totalMs int64, cached bool, degraded []string) Event {
	return BaseEvent{
		Type: TypeChatCompleted,
		Data: map[string]interface{}{
			"correlationId": correlationID,
			"sessionId":     sessionID,
			"intent":        chatIntent,
			"queryIntent":   queryIntent,
			"totalMs":       totalMs,
			"cached":        cached,
			"degraded":      degraded,
		},
		OccurredAt: time.Now(),
	}
}

// NewChatFailed records a request that ended in an error response.
func NewChatFailed(correlationID, kind string) Event {
	return BaseEvent{
		Type: TypeChatFailed,
		Data: map[string]interface{}{
			"correlationId": correlationID,
			"kind":          kind,
		},
		OccurredAt: time.Now(),
	}
}

// NewPlaceIngested records that a place document was embedded and
// indexed by the ingestion worker.
func NewPlaceIngested(placeID string, dims int) Event {
	return BaseEvent{
		Type: TypePlaceIngested,
		Data: map[string]interface{}{
			"placeId":    placeID,
			"dimensions": dims,
		},
		OccurredAt: time.Now(),
	}
}
