package eventstore

import (
	"crypto/sha256"
	"fmt"
	"slices"
	"strings"
)

type EventTypeString = string
type IndexKeyString = string
type IndexValString = string

/***** Index *****/

// Index is a key/value pair attached to stored events at append time and used
// by Criteria to detect cross-entry consistency conflicts.
type Index struct {
	key IndexKeyString
	val IndexValString
}

func Idx(key IndexKeyString, val IndexValString) Index {
	return Index{key: key, val: val}
}

func (i Index) Key() IndexKeyString {
	return i.key
}

func (i Index) Val() IndexValString {
	return i.val
}

/***** Criteria *****/

// Criteria is a filter over event type names and indices.
//
// The zero value ("no criteria") matches every event and is the identity
// element for MergedWith.
type Criteria struct {
	eventTypes []EventTypeString
	indices    []Index
	anyIndices bool
}

// NoCriteria returns the match-any Criteria.
func NoCriteria() Criteria {
	return Criteria{anyIndices: true}
}

func (c Criteria) EventTypes() []EventTypeString {
	return c.eventTypes
}

func (c Criteria) Indices() []Index {
	return c.indices
}

// MatchesAnyIndices reports whether index matching has been relaxed so that
// indexed events match even though the Criteria carries no index matchers.
func (c Criteria) MatchesAnyIndices() bool {
	return c.anyIndices
}

// IsNoCriteria reports whether this Criteria matches every event.
func (c Criteria) IsNoCriteria() bool {
	return len(c.eventTypes) == 0 && len(c.indices) == 0
}

// MatchesEventType reports whether the given event type name passes the type
// part of the filter. An empty type set matches any event type.
func (c Criteria) MatchesEventType(eventType EventTypeString) bool {
	return len(c.eventTypes) == 0 || slices.Contains(c.eventTypes, eventType)
}

// MatchesIndices reports whether an event with the given indices passes the
// index part of the filter. The wasIndexed flag distinguishes events that were
// never evaluated against index criteria (appended without index matchers)
// from events indexed with an empty set.
//
//   - an indexed event matches when at least one of its indices equals one of
//     the Criteria's index matchers
//   - an un-indexed event matches only when the Criteria has no index matchers
//   - relaxed Criteria (MatchesAnyIndices) match regardless of indices
func (c Criteria) MatchesIndices(indices []Index, wasIndexed bool) bool {
	if c.anyIndices {
		return true
	}

	if !wasIndexed {
		return len(c.indices) == 0
	}

	return c.IntersectsIndices(indices)
}

// IntersectsIndices reports whether at least one of the given indices equals
// one of the Criteria's index matchers, key and value both. This is the
// conflict-detection primitive; relaxation does not apply here.
func (c Criteria) IntersectsIndices(indices []Index) bool {
	for _, matcher := range c.indices {
		if slices.Contains(indices, matcher) {
			return true
		}
	}

	return false
}

// Matches is the combined predicate: the event type AND the indices must pass.
func (c Criteria) Matches(event StoredEvent) bool {
	return c.MatchesEventType(event.EventType) && c.MatchesIndices(event.Indices(), event.WasIndexed())
}

// MergedWith returns the union of both Criteria: all event types, all index
// matchers, relaxed when either side is relaxed. NoCriteria is the identity.
func (c Criteria) MergedWith(other Criteria) Criteria {
	merged := Criteria{
		eventTypes: slices.Clone(c.eventTypes),
		indices:    slices.Clone(c.indices),
		anyIndices: c.anyIndices || other.anyIndices,
	}

	merged.eventTypes = append(merged.eventTypes, other.eventTypes...)
	slices.Sort(merged.eventTypes)
	merged.eventTypes = slices.Compact(merged.eventTypes)

	merged.indices = append(merged.indices, other.indices...)
	slices.SortFunc(merged.indices, compareIndices)
	merged.indices = slices.Compact(merged.indices)

	return merged
}

// Hash returns a deterministic hash of the Criteria, usable as a snapshot
// cache key. Equal Criteria always produce the same hash.
func (c Criteria) Hash() string {
	var sb strings.Builder

	sb.WriteString("types:")
	sb.WriteString(strings.Join(c.eventTypes, ","))
	sb.WriteString(";indices:")

	for n, index := range c.indices {
		if n > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(index.key)
		sb.WriteByte('=')
		sb.WriteString(index.val)
	}

	if c.anyIndices {
		sb.WriteString(";any")
	}

	return fmt.Sprintf("sha256:%x", sha256.Sum256([]byte(sb.String())))
}

func compareIndices(a, b Index) int {
	if cmp := strings.Compare(a.key, b.key); cmp != 0 {
		return cmp
	}

	return strings.Compare(a.val, b.val)
}

/***** CriteriaBuilder *****/

// CriteriaBuilder builds a Criteria to be used in storage engine conditions
// (append, sourcing, streaming).
// It is designed with the idea to only allow "useful" criteria combinations
// for event-sourced workflows:
//
//   - no criteria (matches any event)
//   - (eventType OR eventType...)
//   - (index OR index...)
//   - ((eventType OR eventType...) AND (index OR index...))
//   - ((eventType OR eventType...) AND any indices)
type CriteriaBuilder interface {
	// Matching starts building the criteria.
	Matching() EmptyCriteriaBuilder

	// MatchingAnyEvent directly creates the match-any Criteria.
	MatchingAnyEvent() Criteria
}

type EmptyCriteriaBuilder interface {
	// AnyEventTypeOf adds one or multiple event types to the Criteria.
	//
	// It sanitizes the input:
	//	- removing empty event types ("")
	//	- sorting the event types
	//	- removing duplicate event types
	AnyEventTypeOf(eventType EventTypeString, eventTypes ...EventTypeString) CriteriaBuilderLackingIndices

	// AnyIndexOf adds one or multiple Index matchers to the Criteria.
	//
	// It sanitizes the input:
	//	- removing empty/partial Index matchers (key or val is "")
	//	- sorting the Index matchers
	//	- removing duplicate Index matchers
	AnyIndexOf(index Index, indices ...Index) CriteriaBuilderLackingEventTypes
}

type CriteriaBuilderLackingIndices interface {
	// AndAnyIndexOf adds one or multiple Index matchers to the Criteria.
	//
	// It sanitizes the input:
	//	- removing empty/partial Index matchers (key or val is "")
	//	- sorting the Index matchers
	//	- removing duplicate Index matchers
	AndAnyIndexOf(index Index, indices ...Index) CompletedCriteriaBuilder

	// AndAnyIndices relaxes index matching so that indexed events match the
	// Criteria as well. Without it a Criteria carrying no Index matchers only
	// matches events that were appended without any.
	AndAnyIndices() CompletedCriteriaBuilder

	// Finalize returns the Criteria once it has at least one event type OR one Index matcher.
	Finalize() Criteria
}

type CriteriaBuilderLackingEventTypes interface {
	// AndAnyEventTypeOf adds one or multiple event types to the Criteria.
	//
	// It sanitizes the input:
	//	- removing empty event types ("")
	//	- sorting the event types
	//	- removing duplicate event types
	AndAnyEventTypeOf(eventType EventTypeString, eventTypes ...EventTypeString) CompletedCriteriaBuilder

	// Finalize returns the Criteria once it has at least one event type OR one Index matcher.
	Finalize() Criteria
}

type CompletedCriteriaBuilder interface {
	// Finalize returns the Criteria once it has at least one event type OR one Index matcher.
	Finalize() Criteria
}

// criteriaBuilder implements all the interfaces of CriteriaBuilder
type criteriaBuilder struct {
	criteria Criteria
}

// BuildEventCriteria creates a CriteriaBuilder which must eventually be finalized
// with Finalize() or MatchingAnyEvent().
func BuildEventCriteria() CriteriaBuilder {
	return criteriaBuilder{}
}

// Matching starts building the criteria.
func (cb criteriaBuilder) Matching() EmptyCriteriaBuilder {
	return cb
}

// MatchingAnyEvent directly creates the match-any Criteria.
func (cb criteriaBuilder) MatchingAnyEvent() Criteria {
	return NoCriteria()
}

// AnyEventTypeOf adds one or multiple event types to the Criteria expecting ANY of them to match.
//
// It sanitizes the input:
//   - removing empty event types ("")
//   - sorting the event types
//   - removing duplicate event types
func (cb criteriaBuilder) AnyEventTypeOf(
	eventType EventTypeString,
	eventTypes ...EventTypeString,
) CriteriaBuilderLackingIndices {

	cb.criteria.eventTypes = append(
		cb.criteria.eventTypes,
		cb.sanitizeEventTypes(eventType, eventTypes...)...,
	)

	return cb
}

// AndAnyEventTypeOf adds one or multiple event types to the Criteria expecting ANY of them to match.
//
// It sanitizes the input:
//   - removing empty event types ("")
//   - sorting the event types
//   - removing duplicate event types
func (cb criteriaBuilder) AndAnyEventTypeOf(
	eventType EventTypeString,
	eventTypes ...EventTypeString,
) CompletedCriteriaBuilder {

	return cb.AnyEventTypeOf(eventType, eventTypes...)
}

func (cb criteriaBuilder) sanitizeEventTypes(
	eventType EventTypeString,
	eventTypes ...EventTypeString,
) []EventTypeString {

	allEventTypes := append([]EventTypeString{eventType}, eventTypes...)
	allEventTypes = slices.DeleteFunc(
		allEventTypes,
		func(e EventTypeString) bool {
			return e == ""
		})
	slices.Sort(allEventTypes)
	allEventTypes = slices.Compact(allEventTypes)
	allEventTypes = slices.Clip(allEventTypes)

	return allEventTypes
}

// AnyIndexOf adds one or multiple Index matchers to the Criteria expecting ANY of them to match.
//
// It sanitizes the input:
//   - removing empty/partial Index matchers (key or val is "")
//   - sorting the Index matchers
//   - removing duplicate Index matchers
func (cb criteriaBuilder) AnyIndexOf(
	index Index,
	indices ...Index,
) CriteriaBuilderLackingEventTypes {

	cb.criteria.indices = append(
		cb.criteria.indices,
		cb.sanitizeIndices(index, indices...)...,
	)

	return cb
}

// AndAnyIndexOf adds one or multiple Index matchers to the Criteria expecting ANY of them to match.
//
// It sanitizes the input:
//   - removing empty/partial Index matchers (key or val is "")
//   - sorting the Index matchers
//   - removing duplicate Index matchers
func (cb criteriaBuilder) AndAnyIndexOf(
	index Index,
	indices ...Index,
) CompletedCriteriaBuilder {

	return cb.AnyIndexOf(index, indices...)
}

// AndAnyIndices relaxes index matching so that indexed events match the Criteria as well.
func (cb criteriaBuilder) AndAnyIndices() CompletedCriteriaBuilder {
	cb.criteria.anyIndices = true

	return cb
}

func (cb criteriaBuilder) sanitizeIndices(
	index Index,
	indices ...Index,
) []Index {

	allIndices := append([]Index{index}, indices...)
	allIndices = slices.DeleteFunc(allIndices, func(i Index) bool { return len(i.key) == 0 || len(i.val) == 0 })
	slices.SortFunc(allIndices, compareIndices)
	allIndices = slices.Compact(allIndices)
	allIndices = slices.Clip(allIndices)

	return allIndices
}

// Finalize returns the Criteria once it has at least one event type OR one Index matcher.
func (cb criteriaBuilder) Finalize() Criteria {
	return cb.criteria
}
