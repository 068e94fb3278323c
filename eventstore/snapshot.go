package eventstore

import (
	"encoding/json"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var (
	// ErrInvalidSnapshotJSON is returned when snapshot JSON data is malformed or invalid.
	ErrInvalidSnapshotJSON = errors.New("snapshot json is not valid")

	// ErrEmptyProjectionType is returned when an empty projection type is provided.
	ErrEmptyProjectionType = errors.New("projection type must not be empty")

	// ErrEmptyCriteriaHash is returned when an empty criteria hash is provided.
	ErrEmptyCriteriaHash = errors.New("criteria hash must not be empty")

	// ErrSnapshotNotFound is returned when no snapshot exists for the given projection type and criteria.
	ErrSnapshotNotFound = errors.New("no snapshot stored for this projection type and criteria")
)

// Snapshot represents a stored projection state with metadata for incremental updates.
// It contains the serialized projection data along with the Token of the last
// folded event, so a projection can be caught up by sourcing only the events
// past that Token instead of replaying the whole log.
type Snapshot struct {
	ProjectionType string          // Type of projection (e.g., "CardsInCirculation")
	CriteriaHash   string          // Hash of the Criteria the projection sourced its events with
	LastToken      Token           // Token of the last event folded into this snapshot
	Data           json.RawMessage // Serialized projection state as JSON
	CreatedAt      time.Time       // When this snapshot was created/updated
}

// Validate ensures the snapshot has valid data for storage operations.
func (s Snapshot) Validate() error {
	if s.ProjectionType == "" {
		return ErrEmptyProjectionType
	}

	if s.CriteriaHash == "" {
		return ErrEmptyCriteriaHash
	}

	if !jsoniter.ConfigFastest.Valid(s.Data) {
		return ErrInvalidSnapshotJSON
	}

	return nil
}

// BuildSnapshot creates a new Snapshot with validation.
func BuildSnapshot(
	projectionType string,
	criteriaHash string,
	lastToken Token,
	data json.RawMessage,
) (Snapshot, error) {
	snapshot := Snapshot{
		ProjectionType: projectionType,
		CriteriaHash:   criteriaHash,
		LastToken:      lastToken,
		Data:           data,
		CreatedAt:      time.Now(),
	}

	if err := snapshot.Validate(); err != nil {
		return Snapshot{}, err
	}

	return snapshot, nil
}
