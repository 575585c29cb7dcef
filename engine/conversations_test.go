package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatwatch/analyzer"
	"chatwatch/redis"
)

func TestConversationsSortedByActivity(t *testing.T) {
	eng := newTestEngine(alertFixtures())

	summaries, err := eng.Conversations(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 4)

	// Most recently active first.
	assert.Equal(t, "111111111", summaries[0].Phone)
	for i := 1; i < len(summaries); i++ {
		prev, cur := summaries[i-1].LastInteraction, summaries[i].LastInteraction
		require.NotNil(t, prev)
		require.NotNil(t, cur)
		assert.False(t, prev.Before(*cur))
	}
}

func TestConversationsNilLastInteractionSortsLast(t *testing.T) {
	store := &mockStore{
		keys: []redis.ConversationKey{
			storeKey("111111111"),
			storeKey("222222222"),
		},
		data: map[string][]analyzer.Message{
			"111111111": {{Sender: analyzer.SenderHuman, Content: "no clock"}},
			"222222222": {human(evalTime.Add(-time.Hour), "hi")},
		},
	}
	eng := newTestEngine(store)

	summaries, err := eng.Conversations(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "222222222", summaries[0].Phone)
	assert.Nil(t, summaries[1].LastInteraction)
}

func TestConversationsByStatus(t *testing.T) {
	eng := newTestEngine(alertFixtures())

	failed, err := eng.ConversationsByStatus(context.Background(), analyzer.StatusFailure)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "222222222", failed[0].Phone)
	assert.True(t, failed[0].HasFailures)

	ongoing, err := eng.ConversationsByStatus(context.Background(), analyzer.StatusInProgress)
	require.NoError(t, err)
	assert.Len(t, ongoing, 3)
}

func TestLookupResolvesSuffixVariants(t *testing.T) {
	eng := newTestEngine(alertFixtures())

	// Stored under the @c.us variant; looked up by bare phone.
	conversation, err := eng.Lookup(context.Background(), "333333333")
	require.NoError(t, err)

	assert.Equal(t, "333333333", conversation.Phone)
	require.Len(t, conversation.Messages, 2)
	assert.Equal(t, 0, conversation.Messages[0].ID)
	assert.Equal(t, 1, conversation.Messages[1].ID)
	assert.Equal(t, analyzer.StatusInProgress, conversation.Analysis.Status)
	assert.NotEmpty(t, conversation.DurationFormatted)
}

func TestLookupAnnotatesFailurePositions(t *testing.T) {
	eng := newTestEngine(alertFixtures())

	conversation, err := eng.Lookup(context.Background(), "222222222")
	require.NoError(t, err)

	// The no-reply finding points at the trailing AI message.
	require.Len(t, conversation.Messages, 2)
	assert.False(t, conversation.Messages[0].IsFailure)
	assert.True(t, conversation.Messages[1].IsFailure)
}

func TestLookupNotFound(t *testing.T) {
	eng := newTestEngine(alertFixtures())

	_, err := eng.Lookup(context.Background(), "999999999")
	assert.ErrorIs(t, err, ErrNotFound)
}
