// Package eventstore provides core abstractions and types for event sourcing
// over a partially-ordered, criteria-filtered event log.
//
// This package defines the fundamental value objects used across different
// storage engine implementations: criteria, tokens, conditions, storable
// events and common error definitions.
//
// A storage engine is driven by three conditions, all built on Criteria:
//   - AppendCondition: the write-side gate for optimistic concurrency control
//   - SourcingCondition: a bounded historical read over [start, end)
//   - StreamingCondition: an unbounded read starting strictly after a Token
//
// Common usage pattern (source a boundary, decide, append against it):
//
//	criteria := eventstore.BuildEventCriteria().
//		Matching().
//		AnyEventTypeOf(CardIssuedEventType, CardRedeemedEventType).
//		AndAnyIndexOf(eventstore.Idx("card", cardID.String())).
//		Finalize()
//
//	sourcing := eventstore.SourceFrom(0).WithCriteria(criteria)
//	head, err := engine.HeadToken().Await(ctx)
//	// ... fold the sourced events, make the decision ...
//
//	condition := eventstore.AppendAfter(head, criteria)
//	result := engine.Append(ctx, condition, newEvent)
//	if _, err := result.Await(ctx); errors.Is(err, eventstore.ErrConsistencyMarkerSurpassed) {
//		// somebody else moved the boundary: re-source and decide again
//	}
package eventstore
