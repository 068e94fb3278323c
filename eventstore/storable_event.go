package eventstore

import (
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

// StorableEvents is an alias type for a slice of StorableEvent
type StorableEvents = []StorableEvent

// StorableEvent is a DTO (data transfer object) used by a storage engine to append events.
//
// It is built on scalars to be completely agnostic of the implementation of Domain Events in the client code.
//
// While its properties are exported, it should only be constructed with the supplied factory methods:
//   - BuildStorableEvent
//   - BuildStorableEventWithEmptyMetadata
type StorableEvent struct {
	EventID      uuid.UUID
	EventType    string
	OccurredAt   time.Time
	PayloadJSON  []byte
	MetadataJSON []byte
}

// BuildStorableEvent is a factory method for StorableEvent.
//
// It populates the StorableEvent with the given scalar input and assigns a fresh EventID.
// Returns an error if payloadJSON or metadataJSON are not valid JSON.
func BuildStorableEvent(eventType string, occurredAt time.Time, payloadJSON []byte, metadataJSON []byte) (StorableEvent, error) {
	if !jsoniter.ConfigFastest.Valid(payloadJSON) {
		return StorableEvent{}, ErrInvalidPayloadJSON
	}

	if !jsoniter.ConfigFastest.Valid(metadataJSON) {
		return StorableEvent{}, ErrInvalidMetadataJSON
	}

	return StorableEvent{
		EventID:      uuid.New(),
		EventType:    eventType,
		OccurredAt:   occurredAt,
		PayloadJSON:  payloadJSON,
		MetadataJSON: metadataJSON,
	}, nil
}

// BuildStorableEventWithEmptyMetadata is a factory method for StorableEvent.
//
// It populates the StorableEvent with the given scalar input and creates valid empty JSON for MetadataJSON.
// Returns an error if payloadJSON is not valid JSON.
func BuildStorableEventWithEmptyMetadata(eventType string, occurredAt time.Time, payloadJSON []byte) (StorableEvent, error) {
	return BuildStorableEvent(eventType, occurredAt, payloadJSON, []byte("{}"))
}

/***** StoredEvent *****/

// StoredEvents is an alias type for a slice of StoredEvent
type StoredEvents = []StoredEvent

// StoredEvent is one immutable entry of the event log: a StorableEvent plus
// the sequence position the engine assigned to it and, for events appended
// under index criteria, the indices it was tagged with.
//
// StoredEvents are created only by a successful append and never change
// afterwards. An event appended without index matchers carries no index set at
// all, which is distinct from an event indexed with an empty set.
type StoredEvent struct {
	StorableEvent

	sequencePosition SequencePositionInt64
	indices          []Index
	wasIndexed       bool
}

// BuildStoredEvent assigns a sequence position to an un-indexed event.
// It is exported for storage engine implementations; client code never builds StoredEvents.
func BuildStoredEvent(event StorableEvent, position SequencePositionInt64) StoredEvent {
	return StoredEvent{
		StorableEvent:    event,
		sequencePosition: position,
	}
}

// BuildIndexedStoredEvent assigns a sequence position to an event tagged with the given indices.
// It is exported for storage engine implementations; client code never builds StoredEvents.
func BuildIndexedStoredEvent(event StorableEvent, position SequencePositionInt64, indices []Index) StoredEvent {
	return StoredEvent{
		StorableEvent:    event,
		sequencePosition: position,
		indices:          indices,
		wasIndexed:       true,
	}
}

func (e StoredEvent) SequencePosition() SequencePositionInt64 {
	return e.sequencePosition
}

func (e StoredEvent) Indices() []Index {
	return e.indices
}

// WasIndexed reports whether the event was evaluated against index criteria at
// append time. Only indexed events take part in conflict detection.
func (e StoredEvent) WasIndexed() bool {
	return e.wasIndexed
}
