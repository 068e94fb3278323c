package core

import (
	"time"

	"github.com/google/uuid"
)

// CardIssuedEventType is the event type identifier.
const CardIssuedEventType = "CardIssued"

// CardIssued represents when a gift card is issued with an initial balance.
type CardIssued struct {
	EventType      string
	CardID         CardIDString
	InitialBalance AmountCents
	OccurredAt     OccurredAtTS
}

// BuildCardIssued creates a new CardIssued event.
func BuildCardIssued(cardID uuid.UUID, initialBalance AmountCents, occurredAt time.Time) CardIssued {
	event := CardIssued{
		EventType:      CardIssuedEventType,
		CardID:         cardID.String(),
		InitialBalance: initialBalance,
		OccurredAt:     ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e CardIssued) IsEventType() string {
	return CardIssuedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CardIssued) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CardIssued) IsErrorEvent() bool {
	return false
}
