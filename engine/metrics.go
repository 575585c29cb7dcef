package engine

import (
	"context"
	"math"
	"sort"
	"time"

	"chatwatch/analyzer"
)

const dayBucketCount = 7

// DayBucket is one calendar day of the metrics time series. Date is a UTC
// calendar date in 2006-01-02 form.
type DayBucket struct {
	Date       string `json:"date"`
	Total      int    `json:"total"`
	Successes  int    `json:"successes"`
	Failures   int    `json:"failures"`
	InProgress int    `json:"inProgress"`
}

// Totals counts conversations by how recently they started, attributed by
// first-interaction date.
type Totals struct {
	Total int `json:"total"`
	Today int `json:"today"`
	Week  int `json:"week"`
	Month int `json:"month"`
}

// StatusCounts breaks the recent conversations down by terminal status.
type StatusCounts struct {
	Successes  int `json:"successes"`
	Failures   int `json:"failures"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

// MetricsSnapshot is the dashboard aggregate over the full keyspace at
// evaluation time. Chart always holds exactly seven entries, oldest first,
// today last.
type MetricsSnapshot struct {
	Totals      Totals       `json:"totals"`
	Status      StatusCounts `json:"status"`
	SuccessRate float64      `json:"successRate"`
	Chart       []DayBucket  `json:"chart"`
}

// MessageVolume splits total message counts between senders.
type MessageVolume struct {
	Total     int     `json:"total"`
	AI        int     `json:"ai"`
	Human     int     `json:"human"`
	AIPercent float64 `json:"aiPercent"`
}

// DurationStats carries the mean conversation duration.
type DurationStats struct {
	MeanSeconds   int64  `json:"meanSeconds"`
	MeanFormatted string `json:"meanFormatted"`
}

// FailureStats tallies failure findings by kind across the keyspace.
type FailureStats struct {
	WithFailures int                          `json:"conversationsWithFailures"`
	Kinds        map[analyzer.FailureKind]int `json:"kinds"`
	Percent      float64                      `json:"percent"`
}

// HourCount is one hour-of-day with its first-interaction count.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// DetailedMetrics is the extended dashboard aggregate.
type DetailedMetrics struct {
	Messages     MessageVolume `json:"messages"`
	Duration     DurationStats `json:"duration"`
	Failures     FailureStats  `json:"failures"`
	BusiestHours []HourCount   `json:"busiestHours"`
}

// KindStats is the per-kind entry of a failure-type breakdown.
type KindStats struct {
	Count       int     `json:"count"`
	Description string  `json:"description"`
	Percent     float64 `json:"percent"`
}

// FailureBreakdown tallies failure kinds across all conversations, with each
// kind's share of the total discovered conversation count.
type FailureBreakdown struct {
	Kinds               map[analyzer.FailureKind]KindStats `json:"kinds"`
	TotalConversations  int                                `json:"totalConversations"`
	WithFailures        int                                `json:"conversationsWithFailures"`
	PercentWithFailures float64                            `json:"percentWithFailures"`
}

// Metrics scans the keyspace and folds every conversation into a
// MetricsSnapshot. Day buckets are pre-seeded so days with no activity still
// appear with zero counts; conversations without a first interaction count
// only toward the grand total.
func (e *Engine) Metrics(ctx context.Context) (MetricsSnapshot, error) {
	conversations, _, err := e.scan(ctx)
	if err != nil {
		return MetricsSnapshot{}, err
	}

	now := e.now().UTC()
	today := now.Format(time.DateOnly)
	weekStart := now.AddDate(0, 0, -dayBucketCount)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	chart := make([]DayBucket, dayBucketCount)
	buckets := make(map[string]*DayBucket, dayBucketCount)
	for i := 0; i < dayBucketCount; i++ {
		date := now.AddDate(0, 0, i-(dayBucketCount-1)).Format(time.DateOnly)
		chart[i] = DayBucket{Date: date}
		buckets[date] = &chart[i]
	}

	var snapshot MetricsSnapshot
	for _, conv := range conversations {
		snapshot.Totals.Total++

		first := conv.analysis.FirstInteraction
		if first == nil {
			continue
		}
		firstUTC := first.UTC()
		firstDate := firstUTC.Format(time.DateOnly)

		if firstDate == today {
			snapshot.Totals.Today++
		}
		if !firstUTC.Before(weekStart) {
			snapshot.Totals.Week++
		}
		if !firstUTC.Before(monthStart) {
			snapshot.Totals.Month++
		}

		bucket, ok := buckets[firstDate]
		if !ok {
			continue
		}
		bucket.Total++
		switch conv.analysis.Status {
		case analyzer.StatusSuccess:
			bucket.Successes++
			snapshot.Status.Successes++
		case analyzer.StatusFailure:
			bucket.Failures++
			snapshot.Status.Failures++
		case analyzer.StatusInProgress:
			bucket.InProgress++
			snapshot.Status.InProgress++
		}
	}

	snapshot.Status.Completed = snapshot.Status.Successes + snapshot.Status.Failures
	if snapshot.Status.Completed > 0 {
		snapshot.SuccessRate = round1(float64(snapshot.Status.Successes) / float64(snapshot.Status.Completed) * 100)
	}
	snapshot.Chart = chart

	return snapshot, nil
}

// DetailedMetrics adds message-volume, duration, failure-kind and
// busiest-hour aggregates on top of the basic snapshot.
func (e *Engine) DetailedMetrics(ctx context.Context) (DetailedMetrics, error) {
	conversations, totalKeys, err := e.scan(ctx)
	if err != nil {
		return DetailedMetrics{}, err
	}

	metrics := DetailedMetrics{
		Failures: FailureStats{Kinds: map[analyzer.FailureKind]int{}},
	}
	hourCounts := map[int]int{}
	var durations []int64

	for _, conv := range conversations {
		a := conv.analysis
		metrics.Messages.Total += a.TotalMessages
		metrics.Messages.AI += a.AIMessages
		metrics.Messages.Human += a.HumanMessages

		if a.DurationSeconds > 0 {
			durations = append(durations, a.DurationSeconds)
		}

		if len(a.Failures) > 0 {
			metrics.Failures.WithFailures++
			for _, failure := range a.Failures {
				metrics.Failures.Kinds[failure.Kind]++
			}
		}

		if a.FirstInteraction != nil {
			hourCounts[a.FirstInteraction.UTC().Hour()]++
		}
	}

	if metrics.Messages.Total > 0 {
		metrics.Messages.AIPercent = round1(float64(metrics.Messages.AI) / float64(metrics.Messages.Total) * 100)
	}

	if len(durations) > 0 {
		var sum int64
		for _, duration := range durations {
			sum += duration
		}
		metrics.Duration.MeanSeconds = sum / int64(len(durations))
	}
	metrics.Duration.MeanFormatted = analyzer.FormatDuration(metrics.Duration.MeanSeconds)

	if totalKeys > 0 {
		metrics.Failures.Percent = round1(float64(metrics.Failures.WithFailures) / float64(totalKeys) * 100)
	}

	metrics.BusiestHours = topHours(hourCounts, 5)
	return metrics, nil
}

// FailureTypes tallies failure findings by kind across the keyspace,
// reporting each kind's share of the total discovered conversation count.
func (e *Engine) FailureTypes(ctx context.Context) (FailureBreakdown, error) {
	conversations, totalKeys, err := e.scan(ctx)
	if err != nil {
		return FailureBreakdown{}, err
	}

	breakdown := FailureBreakdown{
		Kinds:              map[analyzer.FailureKind]KindStats{},
		TotalConversations: totalKeys,
	}

	for _, conv := range conversations {
		if len(conv.analysis.Failures) == 0 {
			continue
		}
		breakdown.WithFailures++
		for _, failure := range conv.analysis.Failures {
			stats := breakdown.Kinds[failure.Kind]
			if stats.Count == 0 {
				stats.Description = failure.Description
			}
			stats.Count++
			breakdown.Kinds[failure.Kind] = stats
		}
	}

	if totalKeys > 0 {
		for kind, stats := range breakdown.Kinds {
			stats.Percent = round1(float64(stats.Count) / float64(totalKeys) * 100)
			breakdown.Kinds[kind] = stats
		}
		breakdown.PercentWithFailures = round1(float64(breakdown.WithFailures) / float64(totalKeys) * 100)
	}

	return breakdown, nil
}

func topHours(counts map[int]int, limit int) []HourCount {
	hours := make([]HourCount, 0, len(counts))
	for hour, count := range counts {
		hours = append(hours, HourCount{Hour: hour, Count: count})
	}
	sort.Slice(hours, func(i, j int) bool {
		if hours[i].Count != hours[j].Count {
			return hours[i].Count > hours[j].Count
		}
		return hours[i].Hour < hours[j].Hour
	})
	if len(hours) > limit {
		hours = hours[:limit]
	}
	return hours
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
