package analyzer

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ofKind(failures []Failure, kind FailureKind) []Failure {
	var matched []Failure
	for _, f := range failures {
		if f.Kind == kind {
			matched = append(matched, f)
		}
	}
	return matched
}

func TestDetectAILoop(t *testing.T) {
	messages := []Message{
		{Sender: SenderHuman, Content: "hi"},
		{Sender: SenderAI, Content: "one"},
		{Sender: SenderAI, Content: "two"},
		{Sender: SenderAI, Content: "three"},
		{Sender: SenderHuman, Content: "stop"},
	}

	failures, maxRun := DetectFailures(messages)

	loops := ofKind(failures, FailureAILoop)
	require.Len(t, loops, 1)
	assert.Equal(t, 3, loops[0].Position)
	assert.Equal(t, 3, maxRun)
}

func TestDetectAILoopEmitsPerMessage(t *testing.T) {
	// A run of five emits one finding per message from the third onward.
	messages := []Message{
		{Sender: SenderAI, Content: "a"},
		{Sender: SenderAI, Content: "b"},
		{Sender: SenderAI, Content: "c"},
		{Sender: SenderAI, Content: "d"},
		{Sender: SenderAI, Content: "e"},
	}

	failures, maxRun := DetectFailures(messages)

	loops := ofKind(failures, FailureAILoop)
	require.Len(t, loops, 3)
	assert.Equal(t, 2, loops[0].Position)
	assert.Equal(t, 3, loops[1].Position)
	assert.Equal(t, 4, loops[2].Position)
	assert.Equal(t, 5, maxRun)
}

func TestDetectAILoopResetsOnHuman(t *testing.T) {
	messages := []Message{
		{Sender: SenderAI, Content: "a"},
		{Sender: SenderAI, Content: "b"},
		{Sender: SenderHuman, Content: "hi"},
		{Sender: SenderAI, Content: "c"},
		{Sender: SenderAI, Content: "d"},
	}

	failures, maxRun := DetectFailures(messages)

	assert.Empty(t, ofKind(failures, FailureAILoop))
	assert.Equal(t, 2, maxRun)
}

func TestDetectRepetition(t *testing.T) {
	repeated := make([]Message, 0, 6)
	for i := 0; i < 5; i++ {
		repeated = append(repeated, Message{Sender: SenderAI, Content: fmt.Sprintf("text %d", i%2)})
	}
	repeated = append(repeated, Message{Sender: SenderHuman, Content: "?"})

	failures, _ := DetectFailures(repeated)
	reps := ofKind(failures, FailureRepetition)
	require.Len(t, reps, 1)
	assert.Equal(t, PositionWhole, reps[0].Position)

	distinct := make([]Message, 0, 6)
	for i := 0; i < 5; i++ {
		distinct = append(distinct, Message{Sender: SenderAI, Content: fmt.Sprintf("text %d", i)})
	}
	distinct = append(distinct, Message{Sender: SenderHuman, Content: "?"})

	failures, _ = DetectFailures(distinct)
	assert.Empty(t, ofKind(failures, FailureRepetition))
}

func TestDetectNoReply(t *testing.T) {
	failures, _ := DetectFailures([]Message{
		{Sender: SenderHuman, Content: "hi"},
		{Sender: SenderAI, Content: "hello"},
	})
	noReplies := ofKind(failures, FailureNoReply)
	require.Len(t, noReplies, 1)
	assert.Equal(t, 1, noReplies[0].Position)

	failures, _ = DetectFailures([]Message{
		{Sender: SenderAI, Content: "hello"},
		{Sender: SenderHuman, Content: "hi"},
	})
	assert.Empty(t, ofKind(failures, FailureNoReply))
}

func TestDetectDelay(t *testing.T) {
	failures, _ := DetectFailures([]Message{
		{Sender: SenderAI, Content: "hello", Timestamp: at(0)},
		{Sender: SenderHuman, Content: "back", Timestamp: at(45 * time.Minute)},
	})
	delays := ofKind(failures, FailureDelay)
	require.Len(t, delays, 1)
	assert.Equal(t, 1, delays[0].Position)
	assert.Contains(t, delays[0].Description, "45")

	failures, _ = DetectFailures([]Message{
		{Sender: SenderAI, Content: "hello", Timestamp: at(0)},
		{Sender: SenderHuman, Content: "back", Timestamp: at(29 * time.Minute)},
	})
	assert.Empty(t, ofKind(failures, FailureDelay))
}

func TestDetectDelaySkipsMissingTimestamps(t *testing.T) {
	failures, _ := DetectFailures([]Message{
		{Sender: SenderAI, Content: "hello", Timestamp: at(0)},
		{Sender: SenderHuman, Content: "back"},
		{Sender: SenderHuman, Content: "still here", Timestamp: at(2 * time.Hour)},
	})
	assert.Empty(t, ofKind(failures, FailureDelay))
}

func TestDetectIsDeterministic(t *testing.T) {
	messages := []Message{
		{Sender: SenderAI, Content: "a", Timestamp: at(0)},
		{Sender: SenderAI, Content: "a", Timestamp: at(40 * time.Minute)},
		{Sender: SenderAI, Content: "a", Timestamp: at(80 * time.Minute)},
	}

	first, firstRun := DetectFailures(messages)
	second, secondRun := DetectFailures(messages)

	assert.Equal(t, first, second)
	assert.Equal(t, firstRun, secondRun)
}

func TestDetectEmpty(t *testing.T) {
	failures, maxRun := DetectFailures(nil)
	assert.Empty(t, failures)
	assert.Equal(t, 0, maxRun)
}
