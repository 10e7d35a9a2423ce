package calls

import (
	"encoding/json"
	"time"
)

// Record is the canonical, provider-dialect-independent representation of one
// call, as produced by the webhook normalizer or the bulk importer.
//
// Optional fields are pointers: nil means "this delivery did not carry the
// value", and the upsert merge keeps whatever an earlier delivery stored.
type Record struct {
	VapiCallID      string `json:"vapi_call_id" db:"vapi_call_id"`
	VapiAssistantID string `json:"vapi_assistant_id" db:"vapi_assistant_id"`
	AgentID         int64  `json:"agent_id" db:"agent_id"`

	StartedAt       time.Time  `json:"started_at" db:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty" db:"ended_at"`
	DurationSeconds *int       `json:"duration_seconds,omitempty" db:"duration_seconds"`

	Status    Status  `json:"status" db:"status"`
	EndReason *string `json:"end_reason,omitempty" db:"end_reason"`

	PhoneNumber *string `json:"phone_number,omitempty" db:"phone_number"`

	Transcript   *string `json:"transcript,omitempty" db:"transcript"`
	Summary      *string `json:"summary,omitempty" db:"summary"`
	RecordingURL *string `json:"recording_url,omitempty" db:"recording_url"`

	// Sentiment always has a value (neutral when nothing is derivable).
	Sentiment         Sentiment `json:"sentiment" db:"sentiment"`
	Intent            *string   `json:"intent,omitempty" db:"intent"`
	SatisfactionScore *float64  `json:"satisfaction_score,omitempty" db:"satisfaction_score"`

	CostUSD *float64 `json:"cost_usd,omitempty" db:"cost_usd"`

	// RawPayload retains the full inbound document for forensic replay.
	RawPayload json.RawMessage `json:"vapi_raw_data,omitempty" db:"raw_payload"`
}

// Call is a persisted call row.
type Call struct {
	ID int64 `json:"id" db:"id"`

	Record

	// Counted marks that this call has contributed to its agent's call_count.
	// It is claimed at most once per vapi_call_id.
	Counted bool `json:"-" db:"counted"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Status string

const (
	StatusQueued     Status = "queued"
	StatusRinging    Status = "ringing"
	StatusInProgress Status = "in-progress"
	StatusEnded      Status = "ended"
	StatusFailed     Status = "failed"
)

// ParseStatus maps a provider status string onto the local enum.
// "forwarding" is a transient provider state and is folded into in-progress.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusQueued, StatusRinging, StatusInProgress, StatusEnded, StatusFailed:
		return Status(s), true
	}
	if s == "forwarding" {
		return StatusInProgress, true
	}
	return "", false
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

func ParseSentiment(s string) (Sentiment, bool) {
	switch Sentiment(s) {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return Sentiment(s), true
	}
	return "", false
}
