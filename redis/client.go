package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"chatwatch/analyzer"
)

// Client wraps the Redis connection holding the bot's raw conversation
// records. All access is read-only.
type Client struct {
	rdb *redis.Client
}

func NewClient(addr, password string, db int) Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	client := Client{rdb: rdb}

	if err := client.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).
			Str("addr", addr).
			Int("db", db).
			Msg("Redis connection failed")
	} else {
		log.Info().
			Str("addr", addr).
			Int("db", db).
			Msg("Redis connected successfully")
	}

	return client
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// storedMessage is the duck-typed shape the bot writes. Content may live at
// the top level or nested under data; timestamp may be absent or
// unparseable.
type storedMessage struct {
	Type      string `json:"type"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Data      struct {
		Content string `json:"content"`
	} `json:"data"`
}

func (m storedMessage) toMessage() analyzer.Message {
	content := m.Data.Content
	if content == "" {
		content = m.Content
	}

	var ts *time.Time
	if m.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, m.Timestamp); err == nil {
			ts = &parsed
		}
	}

	return analyzer.Message{
		Sender:    m.Type,
		Content:   content,
		Timestamp: ts,
	}
}

// Messages returns the message sequence stored under key, supporting both
// physical layouts: a single JSON-array value, or a native list with one
// JSON object per element. Undecodable values yield an empty sequence, never
// an error; only store-level failures propagate.
func (c *Client) Messages(ctx context.Context, key string) ([]analyzer.Message, error) {
	keyType, err := c.rdb.Type(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	switch keyType {
	case "string":
		raw, err := c.rdb.Get(ctx, key).Result()
		if err == redis.Nil {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return decodeMessageArray(key, []byte(raw)), nil

	case "list":
		entries, err := c.rdb.LRange(ctx, key, 0, -1).Result()
		if err != nil {
			return nil, err
		}
		return decodeMessageList(entries), nil
	}

	return nil, nil
}

func decodeMessageArray(key string, raw []byte) []analyzer.Message {
	var stored []storedMessage
	if err := json.Unmarshal(raw, &stored); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Skipping undecodable conversation value")
		return nil
	}

	messages := make([]analyzer.Message, 0, len(stored))
	for _, msg := range stored {
		messages = append(messages, msg.toMessage())
	}
	return messages
}

func decodeMessageList(entries []string) []analyzer.Message {
	var messages []analyzer.Message
	for _, entry := range entries {
		var msg storedMessage
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			continue
		}
		messages = append(messages, msg.toMessage())
	}
	return messages
}
