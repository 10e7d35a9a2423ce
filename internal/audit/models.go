package audit

import "time"

// Event is one recorded webhook delivery, kept for operator debugging.
//
// Invariants:
// - Events are append-only; the log is capped, old entries fall off.
// - Recording is best-effort and must never block or fail event processing.
type Event struct {
	ID string `json:"id"`

	// EventKind is the logical webhook event label after classification.
	EventKind string `json:"event_kind,omitempty"`
	// Shape is the detected payload dialect.
	Shape string `json:"shape,omitempty"`

	CallID      string `json:"call_id,omitempty"`
	AssistantID string `json:"assistant_id,omitempty"`

	// Outcome is processed, ignored, degraded or rejected.
	Outcome string `json:"outcome"`
	// Error holds the rejection reason when Outcome is rejected.
	Error string `json:"error,omitempty"`

	RemoteAddr string `json:"remote_addr,omitempty"`
	UserAgent  string `json:"user_agent,omitempty"`

	// PayloadSize is recorded instead of the payload itself; the full raw
	// payload already lives on the call row.
	PayloadSize int `json:"payload_size"`

	ReceivedAt time.Time `json:"received_at"`
}
