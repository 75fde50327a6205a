package events

import "time"

// Event codes published on the bus.
const (
	SubscriptionActivated = "SUBSCRIPTION_ACTIVATED"
	SubscriptionCanceled  = "SUBSCRIPTION_CANCELED"
	SubscriptionRenewed   = "SUBSCRIPTION_RENEWED"
	PaymentFailed         = "PAYMENT_FAILED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SUBSCRIPTION_ACTIVATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used by publishers and the
// subscriber when reconstructing events off the wire.
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

// NewSubscriptionEvent builds a subscription lifecycle event for a user.
func NewSubscriptionEvent(eventType string, userId string, details map[string]interface{}) Event {
	data := map[string]interface{}{
		"user_id": userId,
	}
	for k, v := range details {
		data[k] = v
	}
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
