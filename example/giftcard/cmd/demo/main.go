// Command demo runs the gift card example against the in-memory storage
// engine: it issues a few cards, redeems from them concurrently and prints the
// resulting event log.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/eventfoundry/indexed-streams-eventstore-go/eventstore"
	"github.com/eventfoundry/indexed-streams-eventstore-go/eventstore/memoryengine"
	"github.com/eventfoundry/indexed-streams-eventstore-go/example/giftcard/features/issuecard"
	"github.com/eventfoundry/indexed-streams-eventstore-go/example/giftcard/features/redeemcard"
	"github.com/eventfoundry/indexed-streams-eventstore-go/example/giftcard/shell/config"
	"github.com/eventfoundry/indexed-streams-eventstore-go/streams"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "demo failed:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	es, err := memoryengine.NewEventStore(
		memoryengine.WithLogger(logger),
		memoryengine.WithStartingSequencePosition(cfg.StartingPosition),
		memoryengine.WithMaxIndexMatchers(cfg.MaxIndexMatchers),
	)
	if err != nil {
		return err
	}

	ctx := context.Background()

	issueHandler := issuecard.NewCommandHandler(es)
	redeemHandler := redeemcard.NewCommandHandler(es)

	cards := make([]uuid.UUID, cfg.DemoCards)
	for n := range cards {
		cards[n] = uuid.New()

		if err = issueHandler.Handle(ctx, issuecard.BuildCommand(cards[n], 5000)); err != nil {
			return err
		}
	}

	// concurrent redemptions against the same cards; conflicts are retried
	var wg sync.WaitGroup
	for _, cardID := range cards {
		for _, amount := range []int64{2000, 2000, 2000} {
			wg.Add(1)

			go func() {
				defer wg.Done()

				if redeemErr := redeemHandler.Handle(ctx, redeemcard.BuildCommand(cardID, amount)); redeemErr != nil {
					logger.Info("redemption rejected", "card", cardID.String(), "reason", redeemErr.Error())
				}
			}()
		}
	}
	wg.Wait()

	head, err := es.HeadToken().Await(ctx)
	if err != nil {
		return err
	}

	logger.Info("event log written", "head_position", head.Position())

	return printLog(ctx, es)
}

// printLog streams the whole log and prints one line per event.
func printLog(ctx context.Context, es *memoryengine.EventStore) error {
	it := es.Stream(eventstore.StreamFromStart()).Pull()

	for {
		event, err := it.Next(ctx)
		if errors.Is(err, streams.ErrEndOfStream) {
			return nil
		}

		if err != nil {
			return err
		}

		fmt.Printf("%4d  %-22s %s\n", event.SequencePosition(), event.EventType, event.PayloadJSON)
	}
}
