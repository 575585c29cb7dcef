package redis

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// The conversation keyspace is shared with unrelated data, so discovery is a
// shape heuristic: after stripping known channel suffixes, a key qualifies
// when what remains looks like a phone number. Permissive on purpose; a
// false positive just yields a conversation with no decodable messages.
var phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]+$`)

var channelSuffixes = []string{
	"@s.whatsapp.net",
	"@c.us",
	"@g.us",
}

// ConversationKey pairs a raw store key with its canonical phone identifier.
type ConversationKey struct {
	Raw   string
	Phone string
}

// ExtractPhone strips any channel suffix from a store key.
func ExtractPhone(key string) string {
	for _, suffix := range channelSuffixes {
		key = strings.TrimSuffix(key, suffix)
	}
	return key
}

// IsConversationKey reports whether a store key denotes a conversation.
func IsConversationKey(key string) bool {
	phone := ExtractPhone(key)
	return len(phone) >= 8 && phonePattern.MatchString(phone)
}

// VariantKeys lists the store keys a phone identifier may be recorded under,
// in lookup order.
func VariantKeys(phone string) []string {
	return []string{
		phone + "@s.whatsapp.net",
		phone + "@c.us",
		phone,
	}
}

// ConversationKeys scans the full keyspace and returns every key that looks
// like a conversation. A scan failure aborts discovery; no partial results.
func (c *Client) ConversationKeys(ctx context.Context) ([]ConversationKey, error) {
	var keys []ConversationKey
	total := 0

	iter := c.rdb.Scan(ctx, 0, "*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		total++
		if IsConversationKey(key) {
			keys = append(keys, ConversationKey{Raw: key, Phone: ExtractPhone(key)})
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	log.Debug().
		Int("conversation_keys", len(keys)).
		Int("total_keys", total).
		Msg("Keyspace scan complete")

	return keys, nil
}
