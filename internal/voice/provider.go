package voice

import "context"

// Provider defines the provider-agnostic surface of the voice-call service.
//
// Rules:
// - No provider HTTP calls outside this package.
// - Call documents are returned as raw JSON objects: the provider has shipped
//   several payload shapes over time and the webhook pipeline owns the
//   interpretation, not this adapter.
type Provider interface {
	Name() string

	// GetCall fetches one call by the provider's call id. Used by the webhook
	// enrichment path; the call must respect the client timeout and is never
	// retried here (the sender's own webhook retry is the retry mechanism).
	GetCall(ctx context.Context, callID string) (map[string]any, error)

	// ListCalls fetches every call visible to the configured API key.
	ListCalls(ctx context.Context) ([]map[string]any, error)

	// UpdateAssistantServer points an assistant's webhook at serverURL with the
	// given shared secret.
	UpdateAssistantServer(ctx context.Context, assistantID, serverURL, secret string) error
}
