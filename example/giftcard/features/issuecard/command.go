package issuecard

import (
	"time"

	"github.com/google/uuid"

	"github.com/eventfoundry/indexed-streams-eventstore-go/example/giftcard/core"
)

// Command represents the intent to issue a new gift card with an initial balance.
type Command struct {
	CardID         uuid.UUID
	InitialBalance core.AmountCents
	OccurredAt     time.Time
}

// BuildCommand creates an issue card command.
func BuildCommand(cardID uuid.UUID, initialBalance core.AmountCents) Command {
	return Command{
		CardID:         cardID,
		InitialBalance: initialBalance,
		OccurredAt:     time.Now(),
	}
}
