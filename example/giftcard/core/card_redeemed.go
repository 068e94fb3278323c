package core

import (
	"time"

	"github.com/google/uuid"
)

// CardRedeemedEventType is the event type identifier.
const CardRedeemedEventType = "CardRedeemed"

// CardRedeemed represents when an amount is redeemed from a gift card.
type CardRedeemed struct {
	EventType  string
	CardID     CardIDString
	Amount     AmountCents
	OccurredAt OccurredAtTS
}

// BuildCardRedeemed creates a new CardRedeemed event.
func BuildCardRedeemed(cardID uuid.UUID, amount AmountCents, occurredAt time.Time) CardRedeemed {
	event := CardRedeemed{
		EventType:  CardRedeemedEventType,
		CardID:     cardID.String(),
		Amount:     amount,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e CardRedeemed) IsEventType() string {
	return CardRedeemedEventType
}

// HasOccurredAt returns when this event occurred.
func (e CardRedeemed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e CardRedeemed) IsErrorEvent() bool {
	return false
}
