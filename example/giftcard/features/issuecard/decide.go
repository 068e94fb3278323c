package issuecard

import (
	"github.com/google/uuid"

	"github.com/eventfoundry/indexed-streams-eventstore-go/eventstore"
	"github.com/eventfoundry/indexed-streams-eventstore-go/example/giftcard/core"
)

// BuildCardCriteria creates the Criteria spanning the consistency boundary of
// one gift card: every event indexed with the card's ID.
func BuildCardCriteria(cardID uuid.UUID) eventstore.Criteria {
	return eventstore.BuildEventCriteria().
		Matching().
		AnyIndexOf(eventstore.Idx("card", cardID.String())).
		Finalize()
}

// state represents the current state projected from the event history.
type state struct {
	cardIsIssued bool
}

// Decide implements the business logic to determine whether a gift card should be issued.
// This is a pure function with no side effects - it takes the current domain events and a command
// and returns the events that should be appended based on the business rules.
//
// Business Rules:
//
//	GIVEN: A gift card with CardID
//	WHEN: IssueCard command is received
//	THEN: CardIssued event is generated
//	IDEMPOTENCY: If the card is already issued, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	s := project(history, command.CardID.String())

	if s.cardIsIssued {
		return core.IdempotentDecision() // the card already exists, issuing again is a no-op
	}

	return core.SuccessDecision(
		core.BuildCardIssued(command.CardID, command.InitialBalance, command.OccurredAt),
	)
}

// project builds the current state by replaying all events from the history.
func project(history core.DomainEvents, cardID core.CardIDString) state {
	var s state

	for _, event := range history {
		if issued, ok := event.(core.CardIssued); ok && issued.CardID == cardID {
			s.cardIsIssued = true
		}
	}

	return s
}
