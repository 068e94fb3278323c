package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/eventfoundry/indexed-streams-eventstore-go/eventstore"
	"github.com/eventfoundry/indexed-streams-eventstore-go/example/giftcard/core"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple StorableEvents to DomainEvents.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0)

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	switch storableEvent.EventType {
	case core.CardIssuedEventType:
		return unmarshalCardIssued(storableEvent.PayloadJSON)

	case core.CardRedeemedEventType:
		return unmarshalCardRedeemed(storableEvent.PayloadJSON)

	case core.RedeemingCardFailedEventType:
		return unmarshalRedeemingCardFailed(storableEvent.PayloadJSON)

	default:
		return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
	}
}

func unmarshalCardIssued(payloadJSON []byte) (core.CardIssued, error) {
	event := new(core.CardIssued)
	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, event); err != nil {
		return core.CardIssued{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *event, nil
}

func unmarshalCardRedeemed(payloadJSON []byte) (core.CardRedeemed, error) {
	event := new(core.CardRedeemed)
	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, event); err != nil {
		return core.CardRedeemed{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *event, nil
}

func unmarshalRedeemingCardFailed(payloadJSON []byte) (core.RedeemingCardFailed, error) {
	event := new(core.RedeemingCardFailed)
	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, event); err != nil {
		return core.RedeemingCardFailed{}, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *event, nil
}
