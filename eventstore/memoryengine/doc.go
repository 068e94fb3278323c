// Package memoryengine provides the volatile, in-memory implementation of the
// event storage engine contract: an append-only log with optimistic
// concurrency control over criteria-filtered dynamic streams.
//
// Key characteristics:
//   - Appends serialize on a single writer mutex; the conflict check against
//     the consistency marker and the insert are one atomic unit
//   - Reads (Source, Stream, token queries) work on lock-free snapshots and
//     are never blocked by concurrent appends
//   - Positions are strictly increasing, gapless, and never reused
//   - All operation outcomes are delivered through streams.Future and
//     streams.Stream values
//
// Everything is memory-resident: the log, as well as the projection snapshot
// store, vanish with the process. A durable engine is a separate
// implementation of the same contract.
//
// Basic usage:
//
//	store, err := memoryengine.NewEventStore(
//		memoryengine.WithLogger(logger),
//	)
//	if err != nil {
//		// handle error
//	}
//
//	head, err := store.HeadToken().Await(ctx)
//	condition := eventstore.AppendAfter(head, criteria)
//	_, err = store.Append(ctx, condition, event).Await(ctx)
package memoryengine
