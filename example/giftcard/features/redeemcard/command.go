package redeemcard

import (
	"time"

	"github.com/google/uuid"

	"github.com/eventfoundry/indexed-streams-eventstore-go/example/giftcard/core"
)

// Command represents the intent to redeem an amount from a gift card.
type Command struct {
	CardID     uuid.UUID
	Amount     core.AmountCents
	OccurredAt time.Time
}

// BuildCommand creates a redeem card command.
func BuildCommand(cardID uuid.UUID, amount core.AmountCents) Command {
	return Command{
		CardID:     cardID,
		Amount:     amount,
		OccurredAt: time.Now(),
	}
}
