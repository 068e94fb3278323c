package eventstore

/***** AppendCondition *****/

// AppendCondition is the write-side gate of a storage engine: the caller
// asserts that no event matching the Criteria's index matchers has been
// appended after the consistency marker it last observed.
//
// It should only be constructed with the supplied factory methods:
//   - AppendWithNoCriteria
//   - AppendAfter
type AppendCondition struct {
	marker      Token
	criteria    Criteria
	hasCriteria bool
}

// AppendWithNoCriteria creates the sentinel AppendCondition without criteria.
//
// Only use it for events that do not partake in the consistency boundary of
// any model: there is no marker to check, the append can never conflict.
func AppendWithNoCriteria() AppendCondition {
	return AppendCondition{
		marker:   TokenAtPosition(noMarkerSentinelPosition),
		criteria: NoCriteria(),
	}
}

// AppendAfter creates an AppendCondition asserting that no event matching the
// given Criteria's index matchers was appended after the marker.
func AppendAfter(marker Token, criteria Criteria) AppendCondition {
	return AppendCondition{
		marker:      marker,
		criteria:    criteria,
		hasCriteria: true,
	}
}

// noMarkerSentinelPosition is the marker of the no-criteria condition; there
// is nothing to check consistency against.
const noMarkerSentinelPosition = SequencePositionInt64(-1)

func (ac AppendCondition) ConsistencyMarker() Token {
	return ac.marker
}

func (ac AppendCondition) Criteria() Criteria {
	return ac.criteria
}

// HasCriteria reports whether this condition takes part in conflict detection
// at all; the no-criteria sentinel does not.
func (ac AppendCondition) HasCriteria() bool {
	return ac.hasCriteria
}

// With derives a new condition that must also satisfy the boundary established
// by a prior read: the criteria become the union of both, the marker the lower
// of both. Calling it on the no-criteria sentinel adopts the sourcing
// condition's boundary entirely.
func (ac AppendCondition) With(condition SourcingCondition) AppendCondition {
	if !ac.hasCriteria {
		return AppendAfter(TokenAtPosition(condition.Start()-1), condition.Criteria())
	}

	return AppendCondition{
		marker:      ac.marker.Min(TokenAtPosition(condition.Start() - 1)),
		criteria:    ac.criteria.MergedWith(condition.Criteria()),
		hasCriteria: true,
	}
}

// WithMarker derives a new condition with an updated consistency marker,
// typically the head token learned from the read that preceded the append.
//
// It fails with ErrMarkerWithoutCriteria on the no-criteria sentinel: without
// criteria there is nothing to check a marker against.
func (ac AppendCondition) WithMarker(marker Token) (AppendCondition, error) {
	if !ac.hasCriteria {
		return AppendCondition{}, ErrMarkerWithoutCriteria
	}

	return AppendAfter(marker, ac.criteria), nil
}

/***** SourcingCondition *****/

// SourcingCondition describes a bounded historical read: the closed-open
// position range [start, end) filtered by Criteria. Without an explicit end
// the read extends to the head of the log.
//
// It should only be constructed with the supplied factory methods:
//   - SourceFrom
//   - SourceBetween
type SourcingCondition struct {
	start    SequencePositionInt64
	end      SequencePositionInt64
	hasEnd   bool
	criteria Criteria
}

// SourceFrom creates an unbounded SourcingCondition starting at the given position (inclusive).
func SourceFrom(start SequencePositionInt64) SourcingCondition {
	return SourcingCondition{start: start, criteria: NoCriteria()}
}

// SourceBetween creates a bounded SourcingCondition over [start, end).
func SourceBetween(start SequencePositionInt64, end SequencePositionInt64) SourcingCondition {
	return SourcingCondition{start: start, end: end, hasEnd: true, criteria: NoCriteria()}
}

// WithCriteria derives a SourcingCondition with the same bounds and the given Criteria.
func (sc SourcingCondition) WithCriteria(criteria Criteria) SourcingCondition {
	sc.criteria = criteria
	return sc
}

func (sc SourcingCondition) Start() SequencePositionInt64 {
	return sc.start
}

// End returns the exclusive upper bound; ok is false for an unbounded read.
func (sc SourcingCondition) End() (end SequencePositionInt64, ok bool) {
	return sc.end, sc.hasEnd
}

func (sc SourcingCondition) Criteria() Criteria {
	return sc.criteria
}

/***** StreamingCondition *****/

// StreamingCondition describes an unbounded read starting strictly after the
// given Token, filtered by Criteria.
//
// It should only be constructed with the supplied factory methods:
//   - StreamFromStart
//   - StreamingFrom
type StreamingCondition struct {
	position Token
	criteria Criteria
}

// StreamFromStart creates a StreamingCondition covering the whole log.
func StreamFromStart() StreamingCondition {
	return StreamingCondition{
		position: TokenAtPosition(noMarkerSentinelPosition),
		criteria: NoCriteria(),
	}
}

// StreamingFrom creates a StreamingCondition delivering events strictly after the given Token.
func StreamingFrom(position Token) StreamingCondition {
	return StreamingCondition{position: position, criteria: NoCriteria()}
}

// WithCriteria derives a StreamingCondition with the same position and the given Criteria.
func (sc StreamingCondition) WithCriteria(criteria Criteria) StreamingCondition {
	sc.criteria = criteria
	return sc
}

func (sc StreamingCondition) Position() Token {
	return sc.position
}

func (sc StreamingCondition) Criteria() Criteria {
	return sc.criteria
}
