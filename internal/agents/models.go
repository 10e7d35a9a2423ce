package agents

import "time"

// Agent is a locally registered voice agent backed by a provider assistant.
//
// Invariants:
// - VapiAssistantID is unique; it is how webhook payloads are resolved to rows.
// - CallCount is a monotonic derived statistic, incremented at the store level
//   (never read-modify-write in the application).
type Agent struct {
	ID              int64  `json:"id" db:"id"`
	AgentName       string `json:"agent_name" db:"agent_name"`
	VapiAssistantID string `json:"vapi_assistant_id" db:"vapi_assistant_id"`

	Voice string `json:"voice,omitempty" db:"voice"`
	Model string `json:"model,omitempty" db:"model"`

	CallCount int64 `json:"call_count" db:"call_count"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
