package shell

import (
	"context"

	"github.com/eventfoundry/indexed-streams-eventstore-go/eventstore"
	"github.com/eventfoundry/indexed-streams-eventstore-go/streams"
)

// SourcedHistory is the result of sourcing a consistency boundary: the raw
// events plus the consistency marker for the append that may follow. The
// marker is the position of the last matching event, or the before-everything
// token when the boundary holds no events yet.
type SourcedHistory struct {
	Events eventstore.StorableEvents
	Marker eventstore.Token
}

// SourceHistory folds a sourced event stream into a SourcedHistory.
func SourceHistory(
	ctx context.Context,
	stream streams.Stream[eventstore.StoredEvent],
) (SourcedHistory, error) {

	return streams.Reduce(ctx, stream,
		SourcedHistory{Marker: eventstore.TokenAtPosition(-1)},
		func(acc SourcedHistory, event eventstore.StoredEvent) SourcedHistory {
			acc.Events = append(acc.Events, event.StorableEvent)
			acc.Marker = eventstore.TokenAtPosition(event.SequencePosition())

			return acc
		},
	).Await(ctx)
}
