package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"chatwatch/analyzer"
	"chatwatch/redis"
)

// ConversationStore is the read-only view of the keyspace store the engine
// needs. Implemented by redis.Client; mocked in tests.
type ConversationStore interface {
	Ping(ctx context.Context) error
	ConversationKeys(ctx context.Context) ([]redis.ConversationKey, error)
	Messages(ctx context.Context, key string) ([]analyzer.Message, error)
}

// Engine runs the scan-classify-aggregate pass over the store. It holds no
// state between calls; every query recomputes from raw messages.
type Engine struct {
	store       ConversationStore
	concurrency int
	now         func() time.Time
}

func New(store ConversationStore, concurrency int) *Engine {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Engine{
		store:       store,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// Ping reports whether the underlying store is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	return e.store.Ping(ctx)
}

// conversation is one scanned record with its analysis attached.
type conversation struct {
	key      redis.ConversationKey
	messages []analyzer.Message
	analysis analyzer.Analysis
}

// scan discovers every conversation key and fetches + classifies each one
// with bounded concurrency. A discovery failure aborts the scan; per-key
// failures are logged and the key skipped. Returns the analyzed
// conversations plus the total number of discovered keys (including ones
// that yielded no messages).
func (e *Engine) scan(ctx context.Context) ([]conversation, int, error) {
	keys, err := e.store.ConversationKeys(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("keyspace discovery: %w", err)
	}

	results := make([]*conversation, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, key := range keys {
		g.Go(func() error {
			messages, err := e.store.Messages(gctx, key.Raw)
			if err != nil {
				log.Error().Err(err).Str("key", key.Raw).Msg("Skipping conversation: fetch failed")
				return nil
			}
			if len(messages) == 0 {
				return nil
			}
			results[i] = &conversation{
				key:      key,
				messages: messages,
				analysis: analyzer.Analyze(messages),
			}
			return nil
		})
	}

	g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	conversations := make([]conversation, 0, len(results))
	for _, result := range results {
		if result != nil {
			conversations = append(conversations, *result)
		}
	}
	return conversations, len(keys), nil
}
