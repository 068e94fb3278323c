package redeemcard

import (
	"errors"

	"github.com/google/uuid"

	"github.com/eventfoundry/indexed-streams-eventstore-go/eventstore"
	"github.com/eventfoundry/indexed-streams-eventstore-go/example/giftcard/core"
)

const (
	failureReasonCardNotIssued       = "card is not issued"
	failureReasonInsufficientBalance = "insufficient balance"
	failureReasonNonPositiveAmount   = "amount must be positive"
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
	balance      core.AmountCents
}

// Decide implements the business logic to determine whether an amount can be redeemed.
// This is a pure function with no side effects - it takes the current domain events and a command
// and returns the events that should be appended based on the business rules.
//
// Business Rules:
//
//	GIVEN: A gift card with CardID
//	WHEN: RedeemCard command is received
//	THEN: CardRedeemed event is generated and the balance is reduced
//	ERROR: "card is not issued" if no CardIssued event exists for the card
//	ERROR: "insufficient balance" if the amount exceeds the remaining balance
//	ERROR: "amount must be positive" for zero or negative amounts
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	s := project(history, command.CardID.String())

	if command.Amount <= 0 {
		event := core.BuildRedeemingCardFailed(command.CardID, command.Amount, failureReasonNonPositiveAmount, command.OccurredAt)
		return core.ErrorDecision(event, errors.New(event.EventType+": "+failureReasonNonPositiveAmount))
	}

	if !s.cardIsIssued {
		event := core.BuildRedeemingCardFailed(command.CardID, command.Amount, failureReasonCardNotIssued, command.OccurredAt)
		return core.ErrorDecision(event, errors.New(event.EventType+": "+failureReasonCardNotIssued))
	}

	if s.balance < command.Amount {
		event := core.BuildRedeemingCardFailed(command.CardID, command.Amount, failureReasonInsufficientBalance, command.OccurredAt)
		return core.ErrorDecision(event, errors.New(event.EventType+": "+failureReasonInsufficientBalance))
	}

	return core.SuccessDecision(
		core.BuildCardRedeemed(command.CardID, command.Amount, command.OccurredAt),
	)
}

// project builds the current state by replaying all events from the history.
func project(history core.DomainEvents, cardID core.CardIDString) state {
	var s state

	for _, event := range history {
		switch e := event.(type) {
		case core.CardIssued:
			if e.CardID == cardID {
				s.cardIsIssued = true
				s.balance = e.InitialBalance
			}

		case core.CardRedeemed:
			if e.CardID == cardID {
				s.balance -= e.Amount
			}
		}
	}

	return s
}
