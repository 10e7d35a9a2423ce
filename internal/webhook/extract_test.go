package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classify(t *testing.T, body string) Classified {
	t.Helper()
	cls, err := Classify(decode(t, body))
	require.NoError(t, err)
	return cls
}

func TestEventKind(t *testing.T) {
	tests := []struct {
		name string
		body string
		want EventKind
	}{
		{"message wrapped end-of-call-report", `{"message": {"type": "end-of-call-report", "call": {"id": "c"}}}`, EventCallEnded},
		{"message wrapped status-update", `{"message": {"type": "status-update", "call": {"id": "c"}}}`, EventStatusUpdate},
		{"call wrapped call-end", `{"type": "call-end", "call": {"id": "c"}}`, EventCallEnded},
		{"legacy flat call-end", `{"type": "call-end", "id": "c", "assistantId": "a", "status": "ended"}`, EventCallEnded},
		{"unknown label", `{"type": "speech-update", "call": {"id": "c"}}`, EventOther},
		{"no label", `{"call": {"id": "c"}}`, EventOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(t, tt.body).EventKind())
		})
	}
}

func TestAssistantIDFallbackOrder(t *testing.T) {
	// All four locations present: the nested call.assistant.id must win.
	cls := classify(t, `{
		"assistantId": "doc-flat",
		"assistant": {"id": "doc-nested"},
		"call": {
			"assistantId": "call-flat",
			"assistant": {"id": "call-nested"}
		}
	}`)
	id, err := cls.AssistantID()
	require.NoError(t, err)
	assert.Equal(t, "call-nested", id)
}

func TestAssistantIDFallsThroughChain(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"doc nested assistant", `{"call": {"id": "c"}, "assistant": {"id": "doc-nested"}}`, "doc-nested"},
		{"call flat", `{"call": {"id": "c", "assistantId": "call-flat"}}`, "call-flat"},
		{"doc flat", `{"call": {"id": "c"}, "assistantId": "doc-flat"}`, "doc-flat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := classify(t, tt.body).AssistantID()
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestAssistantIDMissing(t *testing.T) {
	cls := classify(t, `{"call": {"id": "c"}}`)
	_, err := cls.AssistantID()
	assert.ErrorIs(t, err, ErrMissingAssistantID)
}

func TestCallIDPrefersCallOverDoc(t *testing.T) {
	cls := classify(t, `{"id": "doc-id", "call": {"id": "call-id"}}`)
	id, err := cls.CallID()
	require.NoError(t, err)
	assert.Equal(t, "call-id", id)
}

func TestCallIDMissing(t *testing.T) {
	cls := classify(t, `{"call": {"assistantId": "a"}}`)
	_, err := cls.CallID()
	assert.ErrorIs(t, err, ErrMissingCallID)
}
