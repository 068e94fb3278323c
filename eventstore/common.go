package eventstore

import (
	"errors"
	"fmt"
)

var ErrInvalidPayloadJSON = errors.New("payload json is not valid")
var ErrInvalidMetadataJSON = errors.New("metadata json is not valid")
var ErrNoEventsSupplied = errors.New("no events supplied")
var ErrNilClockSupplied = errors.New("nil clock supplied")
var ErrMarkerWithoutCriteria = errors.New("cannot attach a consistency marker to a condition without criteria")
var ErrNegativeStartingPosition = errors.New("starting sequence position must not be negative")
var ErrInvalidIndexCapacity = errors.New("max index matchers must be at least 1")

// ErrTooManyIndices is the sentinel for TooManyIndicesError, usable with errors.Is.
var ErrTooManyIndices = errors.New("append condition has more index matchers than the engine supports")

// ErrConsistencyMarkerSurpassed is the sentinel for ConsistencyMarkerSurpassedError, usable with errors.Is.
var ErrConsistencyMarkerSurpassed = errors.New("consistency marker surpassed, a conflicting event was appended")

// TooManyIndicesError reports an AppendCondition whose Criteria carries more
// index matchers than the engine evaluates concurrently. It is rejected before
// any log access.
type TooManyIndicesError struct {
	Requested int
	Supported int
}

func (e TooManyIndicesError) Error() string {
	return fmt.Sprintf("%s: requested %d, supported %d", ErrTooManyIndices.Error(), e.Requested, e.Supported)
}

func (e TooManyIndicesError) Unwrap() error {
	return ErrTooManyIndices
}

// ConsistencyMarkerSurpassedError reports an optimistic-concurrency conflict:
// an event matching the condition's index matchers exists beyond the caller's
// consistency marker. The caller should re-source, recompute its marker and
// decide again; the engine never retries internally.
type ConsistencyMarkerSurpassedError struct {
	Marker Token
}

func (e ConsistencyMarkerSurpassedError) Error() string {
	return fmt.Sprintf("%s: marker at position %d", ErrConsistencyMarkerSurpassed.Error(), e.Marker.Position())
}

func (e ConsistencyMarkerSurpassedError) Unwrap() error {
	return ErrConsistencyMarkerSurpassed
}
