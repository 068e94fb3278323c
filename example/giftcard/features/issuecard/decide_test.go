package issuecard_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventfoundry/indexed-streams-eventstore-go/example/giftcard/core"
	"github.com/eventfoundry/indexed-streams-eventstore-go/example/giftcard/features/issuecard"
)

func Test_Decide_IssuesNewCard(t *testing.T) {
	cardID := uuid.New()
	command := issuecard.BuildCommand(cardID, 5000)

	result := issuecard.Decide(nil, command)

	require.True(t, result.HasEventToAppend())
	require.NoError(t, result.HasError())

	issued, ok := result.Event.(core.CardIssued)
	require.True(t, ok)
	assert.Equal(t, cardID.String(), issued.CardID)
	assert.Equal(t, int64(5000), issued.InitialBalance)
}

func Test_Decide_IsIdempotentForIssuedCard(t *testing.T) {
	cardID := uuid.New()
	history := core.DomainEvents{
		core.BuildCardIssued(cardID, 5000, time.Now()),
	}

	result := issuecard.Decide(history, issuecard.BuildCommand(cardID, 5000))

	assert.False(t, result.HasEventToAppend())
	assert.NoError(t, result.HasError())
}

func Test_Decide_IgnoresOtherCardsInHistory(t *testing.T) {
	cardID := uuid.New()
	history := core.DomainEvents{
		core.BuildCardIssued(uuid.New(), 5000, time.Now()),
	}

	result := issuecard.Decide(history, issuecard.BuildCommand(cardID, 2500))

	assert.True(t, result.HasEventToAppend())
}
