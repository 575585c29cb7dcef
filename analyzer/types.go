package analyzer

import "time"

// Sender values as stored by the bot. Anything else still counts toward the
// message total but neither the AI nor the human bucket.
const (
	SenderAI    = "ai"
	SenderHuman = "human"
)

// Status is the derived lifecycle state of a conversation.
type Status string

const (
	StatusEmpty      Status = "empty"
	StatusSuccess    Status = "success"
	StatusFailure    Status = "failure"
	StatusInProgress Status = "in_progress"
)

// FailureKind identifies a structural anomaly pattern.
type FailureKind string

const (
	FailureAILoop     FailureKind = "ai_loop"
	FailureRepetition FailureKind = "repetition"
	FailureNoReply    FailureKind = "no_reply"
	FailureDelay      FailureKind = "delay"
)

// PositionWhole marks a failure that applies to the conversation as a whole
// rather than a single message.
const PositionWhole = -1

// Message is one turn of a stored conversation. Timestamp is nil when the
// stored record carries none.
type Message struct {
	Sender    string     `json:"sender"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp"`
}

// Failure is one detected anomaly. Position indexes into the message
// sequence, or PositionWhole.
type Failure struct {
	Kind        FailureKind `json:"kind"`
	Description string      `json:"description"`
	Position    int         `json:"position"`
}

// Analysis is the derived, read-only summary of one conversation.
// MaxConsecutiveAI is the longest run of consecutive AI messages, carried
// through so the priority scorer does not have to re-derive it from the
// failure list.
type Analysis struct {
	Status           Status     `json:"status"`
	DurationSeconds  int64      `json:"durationSeconds"`
	TotalMessages    int        `json:"totalMessages"`
	AIMessages       int        `json:"aiMessages"`
	HumanMessages    int        `json:"humanMessages"`
	Failures         []Failure  `json:"failures"`
	Summary          string     `json:"summary"`
	FirstInteraction *time.Time `json:"firstInteraction"`
	LastInteraction  *time.Time `json:"lastInteraction"`
	MaxConsecutiveAI int        `json:"-"`
}
