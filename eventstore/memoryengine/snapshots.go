package memoryengine

import (
	"context"

	"github.com/eventfoundry/indexed-streams-eventstore-go/eventstore"
)

// SaveSnapshot stores a projection snapshot, replacing any existing snapshot
// for the same projection type and criteria. Snapshots are volatile like the
// log itself.
func (es *EventStore) SaveSnapshot(ctx context.Context, snapshot eventstore.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}

	key := snapshotKey{projectionType: snapshot.ProjectionType, criteriaHash: snapshot.CriteriaHash}

	es.snapshotsMu.Lock()
	es.snapshots[key] = snapshot
	es.snapshotsMu.Unlock()

	es.logOperationContext(ctx, logActionSaveSnapshot,
		logAttrProjectionType, snapshot.ProjectionType,
		logAttrHeadPosition, snapshot.LastToken.Position())

	return nil
}

// LoadSnapshot returns the stored snapshot for the projection type and
// criteria, or eventstore.ErrSnapshotNotFound when none exists.
func (es *EventStore) LoadSnapshot(
	ctx context.Context,
	projectionType string,
	criteria eventstore.Criteria,
) (eventstore.Snapshot, error) {

	if projectionType == "" {
		return eventstore.Snapshot{}, eventstore.ErrEmptyProjectionType
	}

	key := snapshotKey{projectionType: projectionType, criteriaHash: criteria.Hash()}

	es.snapshotsMu.RLock()
	snapshot, ok := es.snapshots[key]
	es.snapshotsMu.RUnlock()

	if !ok {
		return eventstore.Snapshot{}, eventstore.ErrSnapshotNotFound
	}

	es.logOperationContext(ctx, logActionLoadSnapshot,
		logAttrProjectionType, projectionType,
		logAttrHeadPosition, snapshot.LastToken.Position())

	return snapshot, nil
}

// DeleteSnapshot removes the stored snapshot for the projection type and
// criteria. Deleting a snapshot that does not exist is not an error.
func (es *EventStore) DeleteSnapshot(
	ctx context.Context,
	projectionType string,
	criteria eventstore.Criteria,
) error {

	if projectionType == "" {
		return eventstore.ErrEmptyProjectionType
	}

	key := snapshotKey{projectionType: projectionType, criteriaHash: criteria.Hash()}

	es.snapshotsMu.Lock()
	delete(es.snapshots, key)
	es.snapshotsMu.Unlock()

	es.logOperationContext(ctx, logActionDeleteSnapshot, logAttrProjectionType, projectionType)

	return nil
}
