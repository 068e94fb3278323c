package redeemcard

import (
	"context"

	"github.com/google/uuid"

	"github.com/eventfoundry/indexed-streams-eventstore-go/eventstore"
	"github.com/eventfoundry/indexed-streams-eventstore-go/example/giftcard/shell"
	"github.com/eventfoundry/indexed-streams-eventstore-go/streams"
)

// EventStore defines the interface needed by the CommandHandler for storage engine operations.
type EventStore interface {
	Source(condition eventstore.SourcingCondition) streams.Stream[eventstore.StoredEvent]
	Append(
		ctx context.Context,
		condition eventstore.AppendCondition,
		events ...eventstore.StorableEvent,
	) *streams.Future[eventstore.Token]
}

// CommandHandler orchestrates the complete command processing workflow:
// Source -> Unmarshal -> Decide -> Append, with retry on concurrency conflicts.
type CommandHandler struct {
	eventStore   EventStore
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(eventStore EventStore, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore: eventStore,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the complete command processing workflow with retry logic.
// Concurrency conflicts are retried with exponential backoff. A rejected
// redemption appends the failure event and surfaces the business error.
func (h CommandHandler) Handle(ctx context.Context, command Command) error {
	return shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		return h.executeCommand(retryCtx, command)
	}, h.retryOptions...)
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) error {
	criteria := BuildCardCriteria(command.CardID)
	sourcing := eventstore.SourceFrom(0).WithCriteria(criteria)

	// Source phase
	sourced, err := shell.SourceHistory(ctx, h.eventStore.Source(sourcing))
	if err != nil {
		return err
	}

	// Unmarshal phase
	history, err := shell.DomainEventsFrom(sourced.Events)
	if err != nil {
		return err
	}

	// Business logic phase - delegate to pure core function
	result := Decide(history, command)

	if !result.HasEventToAppend() {
		return nil // idempotent success, nothing to append
	}

	// Append phase
	uid := uuid.New()
	eventMetadata := shell.BuildEventMetadata(uid, uid, uid)

	storableEvent, marshalErr := shell.StorableEventFrom(result.Event, eventMetadata)
	if marshalErr != nil {
		return marshalErr
	}

	condition := eventstore.AppendAfter(sourced.Marker, criteria)

	if _, appendErr := h.eventStore.Append(ctx, condition, storableEvent).Await(ctx); appendErr != nil {
		return appendErr
	}

	return result.HasError()
}
