package engine

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"chatwatch/analyzer"
	"chatwatch/redis"
)

// ErrNotFound is returned by Lookup when no store key variant holds messages
// for the requested identifier.
var ErrNotFound = errors.New("conversation not found")

// Summary is the list-view projection of one analyzed conversation.
type Summary struct {
	Phone            string          `json:"phone"`
	FirstInteraction *time.Time      `json:"firstInteraction"`
	LastInteraction  *time.Time      `json:"lastInteraction"`
	TotalMessages    int             `json:"totalMessages"`
	Status           analyzer.Status `json:"status"`
	DurationSeconds  int64           `json:"durationSeconds"`
	AIMessages       int             `json:"aiMessages"`
	HumanMessages    int             `json:"humanMessages"`
	HasFailures      bool            `json:"hasFailures"`
}

// AnnotatedMessage is a stored message enriched with whether a failure
// finding points at its position.
type AnnotatedMessage struct {
	ID        int        `json:"id"`
	Sender    string     `json:"sender"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp"`
	IsFailure bool       `json:"isFailure"`
}

// Conversation is the full single-conversation view: every message
// annotated, plus the analysis.
type Conversation struct {
	Phone             string             `json:"phone"`
	Messages          []AnnotatedMessage `json:"messages"`
	Analysis          analyzer.Analysis  `json:"analysis"`
	DurationFormatted string             `json:"durationFormatted"`
}

// Conversations lists every discovered conversation, most recently active
// first. Conversations without a last interaction sort to the end.
func (e *Engine) Conversations(ctx context.Context) ([]Summary, error) {
	conversations, _, err := e.scan(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(conversations))
	for _, conv := range conversations {
		summaries = append(summaries, newSummary(conv))
	}

	sortSummaries(summaries)
	return summaries, nil
}

// ConversationsByStatus lists conversations whose derived status matches.
func (e *Engine) ConversationsByStatus(ctx context.Context, status analyzer.Status) ([]Summary, error) {
	conversations, _, err := e.scan(ctx)
	if err != nil {
		return nil, err
	}

	summaries := []Summary{}
	for _, conv := range conversations {
		if conv.analysis.Status == status {
			summaries = append(summaries, newSummary(conv))
		}
	}

	sortSummaries(summaries)
	return summaries, nil
}

// Lookup resolves a phone identifier across the store's suffix variants and
// returns the full annotated conversation, or ErrNotFound.
func (e *Engine) Lookup(ctx context.Context, phone string) (Conversation, error) {
	for _, key := range redis.VariantKeys(phone) {
		messages, err := e.store.Messages(ctx, key)
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("Lookup: skipping key variant")
			continue
		}
		if len(messages) == 0 {
			continue
		}

		analysis := analyzer.Analyze(messages)
		annotated := make([]AnnotatedMessage, 0, len(messages))
		for i, msg := range messages {
			annotated = append(annotated, AnnotatedMessage{
				ID:        i,
				Sender:    msg.Sender,
				Content:   msg.Content,
				Timestamp: msg.Timestamp,
				IsFailure: failureAt(analysis.Failures, i),
			})
		}

		return Conversation{
			Phone:             phone,
			Messages:          annotated,
			Analysis:          analysis,
			DurationFormatted: analyzer.FormatDuration(analysis.DurationSeconds),
		}, nil
	}

	return Conversation{}, ErrNotFound
}

func failureAt(failures []analyzer.Failure, position int) bool {
	for _, failure := range failures {
		if failure.Position == position {
			return true
		}
	}
	return false
}

func newSummary(conv conversation) Summary {
	a := conv.analysis
	return Summary{
		Phone:            conv.key.Phone,
		FirstInteraction: a.FirstInteraction,
		LastInteraction:  a.LastInteraction,
		TotalMessages:    a.TotalMessages,
		Status:           a.Status,
		DurationSeconds:  a.DurationSeconds,
		AIMessages:       a.AIMessages,
		HumanMessages:    a.HumanMessages,
		HasFailures:      len(a.Failures) > 0,
	}
}

func sortSummaries(summaries []Summary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i].LastInteraction, summaries[j].LastInteraction
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
}
