package engine

import (
	"context"
	"sort"
	"time"

	"chatwatch/analyzer"
)

// urgentThreshold is the minimum priority an alert needs to count as
// high-urgency.
const urgentThreshold = 8

// Alert is one conversation needing human attention, ranked by priority.
type Alert struct {
	Phone            string             `json:"phone"`
	FirstInteraction *time.Time         `json:"firstInteraction"`
	LastInteraction  *time.Time         `json:"lastInteraction"`
	TotalMessages    int                `json:"totalMessages"`
	Status           analyzer.Status    `json:"status"`
	DurationSeconds  int64              `json:"durationSeconds"`
	AIMessages       int                `json:"aiMessages"`
	HumanMessages    int                `json:"humanMessages"`
	Failures         []analyzer.Failure `json:"failures"`
	Summary          string             `json:"summary"`
	Priority         int                `json:"priority"`
	SecondsSinceLast int64              `json:"secondsSinceLastInteraction"`
}

// AlertLevels buckets a set of alerts by urgency band.
type AlertLevels struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Alerts returns every conversation with detected failures or still in
// progress, sorted by priority descending; among equal priorities the
// longest-unattended conversation sorts first.
func (e *Engine) Alerts(ctx context.Context) ([]Alert, error) {
	conversations, _, err := e.scan(ctx)
	if err != nil {
		return nil, err
	}

	now := e.now()
	alerts := []Alert{}
	for _, conv := range conversations {
		a := conv.analysis
		if len(a.Failures) == 0 && a.Status != analyzer.StatusInProgress {
			continue
		}
		alerts = append(alerts, newAlert(conv, now))
	}

	sortAlerts(alerts)
	return alerts, nil
}

// UrgentAlerts returns only alerts at or above the urgency threshold.
func (e *Engine) UrgentAlerts(ctx context.Context) ([]Alert, error) {
	conversations, _, err := e.scan(ctx)
	if err != nil {
		return nil, err
	}

	now := e.now()
	alerts := []Alert{}
	for _, conv := range conversations {
		alert := newAlert(conv, now)
		if alert.Priority >= urgentThreshold {
			alerts = append(alerts, alert)
		}
	}

	sortAlerts(alerts)
	return alerts, nil
}

// CountLevels tallies alerts into high (>=8), medium (5-7) and low (<5)
// priority bands.
func CountLevels(alerts []Alert) AlertLevels {
	var levels AlertLevels
	for _, alert := range alerts {
		switch {
		case alert.Priority >= urgentThreshold:
			levels.High++
		case alert.Priority >= 5:
			levels.Medium++
		default:
			levels.Low++
		}
	}
	return levels
}

func newAlert(conv conversation, now time.Time) Alert {
	a := conv.analysis
	return Alert{
		Phone:            conv.key.Phone,
		FirstInteraction: a.FirstInteraction,
		LastInteraction:  a.LastInteraction,
		TotalMessages:    a.TotalMessages,
		Status:           a.Status,
		DurationSeconds:  a.DurationSeconds,
		AIMessages:       a.AIMessages,
		HumanMessages:    a.HumanMessages,
		Failures:         a.Failures,
		Summary:          a.Summary,
		Priority:         analyzer.Score(a, now),
		SecondsSinceLast: analyzer.SecondsSince(a.LastInteraction, now),
	}
}

func sortAlerts(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Priority != alerts[j].Priority {
			return alerts[i].Priority > alerts[j].Priority
		}
		return alerts[i].SecondsSinceLast < alerts[j].SecondsSinceLast
	})
}
