package core

import (
	"time"

	"github.com/google/uuid"
)

// RedeemingCardFailedEventType is the event type identifier.
const RedeemingCardFailedEventType = "RedeemingCardFailed"

// RedeemingCardFailed represents when redeeming from a gift card was rejected by a business rule.
type RedeemingCardFailed struct {
	EventType  string
	CardID     CardIDString
	Amount     AmountCents
	Reason     string
	OccurredAt OccurredAtTS
}

// BuildRedeemingCardFailed creates a new RedeemingCardFailed event.
func BuildRedeemingCardFailed(cardID uuid.UUID, amount AmountCents, reason string, occurredAt time.Time) RedeemingCardFailed {
	event := RedeemingCardFailed{
		EventType:  RedeemingCardFailedEventType,
		CardID:     cardID.String(),
		Amount:     amount,
		Reason:     reason,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e RedeemingCardFailed) IsEventType() string {
	return RedeemingCardFailedEventType
}

// HasOccurredAt returns when this event occurred.
func (e RedeemingCardFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a failed operation.
func (e RedeemingCardFailed) IsErrorEvent() bool {
	return true
}
