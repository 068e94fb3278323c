package eventstore

// SequencePositionInt64 is a type alias for int64, identifying an event's place in the log.
type SequencePositionInt64 = int64

// Token marks a point between two log positions. A Token at position P sits
// just after the event stored at P and just before the event at P+1, which
// gives boundary reads exclusive/inclusive semantics without ambiguity.
//
// Tokens are short-lived value objects; they are issued by a storage engine
// and never refer to a position that did not exist at the time of issuance.
type Token struct {
	position SequencePositionInt64
}

// TokenAtPosition creates a Token sitting just after the given position.
func TokenAtPosition(position SequencePositionInt64) Token {
	return Token{position: position}
}

func (t Token) Position() SequencePositionInt64 {
	return t.position
}

// Covers reports whether the event at the given position lies at or before
// this Token, i.e. a reader holding this Token has already observed it.
func (t Token) Covers(position SequencePositionInt64) bool {
	return position <= t.position
}

// Before reports whether this Token sits before the other one.
func (t Token) Before(other Token) bool {
	return t.position < other.position
}

// Min returns the earlier of both Tokens.
func (t Token) Min(other Token) Token {
	if other.position < t.position {
		return other
	}

	return t
}
