package analyzer

import "fmt"

// delayThresholdMinutes is the gap between adjacent messages above which a
// delay finding is emitted.
const delayThresholdMinutes = 30

// DetectFailures scans a message sequence for structural anomalies and
// returns the findings in detection order, plus the longest run of
// consecutive AI messages. Findings are intentionally not deduplicated: a
// long AI run emits one ai_loop finding per message from the third onward,
// and the total finding count feeds directly into priority scoring.
func DetectFailures(messages []Message) ([]Failure, int) {
	failures := []Failure{}

	// Runs of 3+ consecutive AI messages suggest the bot is looping.
	consecutiveAI := 0
	maxRun := 0
	for i, msg := range messages {
		if msg.Sender == SenderAI {
			consecutiveAI++
			if consecutiveAI > maxRun {
				maxRun = consecutiveAI
			}
			if consecutiveAI >= 3 {
				failures = append(failures, Failure{
					Kind:        FailureAILoop,
					Description: "AI sending too many consecutive messages",
					Position:    i,
				})
			}
		} else {
			consecutiveAI = 0
		}
	}

	// Heavily duplicated AI contents suggest the bot is repeating itself.
	var aiContents []string
	for _, msg := range messages {
		if msg.Sender == SenderAI {
			aiContents = append(aiContents, msg.Content)
		}
	}
	distinct := map[string]struct{}{}
	for _, content := range aiContents {
		distinct[content] = struct{}{}
	}
	if len(aiContents) > len(distinct)+2 {
		failures = append(failures, Failure{
			Kind:        FailureRepetition,
			Description: "AI repeating messages",
			Position:    PositionWhole,
		})
	}

	// A conversation ending on an AI message got no reply.
	if len(messages) > 0 && messages[len(messages)-1].Sender == SenderAI {
		failures = append(failures, Failure{
			Kind:        FailureNoReply,
			Description: "Conversation ended with an AI message and no reply",
			Position:    len(messages) - 1,
		})
	}

	// Long gaps between adjacent messages.
	for i := 1; i < len(messages); i++ {
		prev := messages[i-1].Timestamp
		cur := messages[i].Timestamp
		if prev == nil || cur == nil {
			continue
		}
		minutes := int64(cur.Sub(*prev).Minutes())
		if minutes > delayThresholdMinutes {
			failures = append(failures, Failure{
				Kind:        FailureDelay,
				Description: fmt.Sprintf("Delay of %d minutes between messages", minutes),
				Position:    i,
			})
		}
	}

	return failures, maxRun
}
