package analyzer

import "fmt"

// Analyze classifies an ordered message sequence. It is a pure function: no
// I/O, deterministic, and it never mutates its input. Message order is taken
// as stored; timestamps are not re-sorted.
func Analyze(messages []Message) Analysis {
	if len(messages) == 0 {
		return Analysis{
			Status:   StatusEmpty,
			Failures: []Failure{},
			Summary:  "Empty conversation.",
		}
	}

	var aiCount, humanCount int
	for _, msg := range messages {
		switch msg.Sender {
		case SenderAI:
			aiCount++
		case SenderHuman:
			humanCount++
		}
	}

	first := messages[0]
	last := messages[len(messages)-1]

	failures, maxRun := DetectFailures(messages)
	status := determineStatus(messages, failures)

	return Analysis{
		Status:           status,
		DurationSeconds:  durationSeconds(first, last),
		TotalMessages:    len(messages),
		AIMessages:       aiCount,
		HumanMessages:    humanCount,
		Failures:         failures,
		Summary:          buildSummary(len(messages), aiCount, humanCount, status, failures),
		FirstInteraction: first.Timestamp,
		LastInteraction:  last.Timestamp,
		MaxConsecutiveAI: maxRun,
	}
}

// durationSeconds is the whole-second gap between the first and last message,
// 0 when either timestamp is missing. Out-of-order timestamps yield the raw
// negative difference; callers tolerate it.
func durationSeconds(first, last Message) int64 {
	if first.Timestamp == nil || last.Timestamp == nil {
		return 0
	}
	return int64(last.Timestamp.Sub(*first.Timestamp).Seconds())
}

func determineStatus(messages []Message, failures []Failure) Status {
	last := messages[len(messages)-1]

	if last.Sender == SenderAI && len(failures) > 0 {
		return StatusFailure
	}
	if last.Sender == SenderHuman {
		return StatusInProgress
	}
	if last.Sender == SenderAI && len(failures) == 0 {
		return StatusSuccess
	}
	return StatusInProgress
}

func buildSummary(total, ai, human int, status Status, failures []Failure) string {
	summary := fmt.Sprintf("Conversation with %d messages (%d AI, %d human). ", total, ai, human)

	switch status {
	case StatusSuccess:
		summary += "Handled successfully."
	case StatusFailure:
		summary += fmt.Sprintf("Failure detected: %d problem(s) identified.", len(failures))
	case StatusInProgress:
		summary += "Conversation still in progress."
	}

	return summary
}

// FormatDuration renders a second count for display: "45s", "12min",
// "2h 5min".
func FormatDuration(seconds int64) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dmin", seconds/60)
	}
	return fmt.Sprintf("%dh %dmin", seconds/3600, (seconds%3600)/60)
}
