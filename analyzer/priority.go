package analyzer

import "time"

// SecondsSince returns the whole seconds elapsed between t and now, 0 when t
// is unknown.
func SecondsSince(t *time.Time, now time.Time) int64 {
	if t == nil {
		return 0
	}
	return int64(now.Sub(*t).Seconds())
}

// Score ranks a conversation's urgency on a 0-10 scale. The score combines
// the terminal status, the number of detected failures, how long the
// conversation has sat without activity as of now, and the longest
// consecutive-AI run recorded on the analysis.
func Score(a Analysis, now time.Time) int {
	priority := 0

	switch a.Status {
	case StatusInProgress:
		priority += 5
	case StatusFailure:
		priority += 8
	case StatusSuccess:
		priority += 1
	}

	priority += len(a.Failures) * 2

	elapsed := SecondsSince(a.LastInteraction, now)
	switch {
	case elapsed > 3600:
		priority += 3
	case elapsed > 1800:
		priority += 2
	case elapsed > 900:
		priority += 1
	}

	switch {
	case a.MaxConsecutiveAI >= 3:
		priority += 4
	case a.MaxConsecutiveAI >= 2:
		priority += 2
	}

	if priority > 10 {
		priority = 10
	}
	return priority
}
