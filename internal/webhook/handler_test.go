package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceagent-dashboard/internal/audit"
)

const testSecret = "whsec-test"

func newTestRouter(store *fakeStore, auditor *audit.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(newTestProcessor(store, nil), auditor, testSecret)
	r := gin.New()
	r.POST("/webhooks/vapi", h.Receive)
	r.GET("/webhooks/vapi", h.Verify)
	return r
}

func deliver(r *gin.Engine, secret, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/vapi", strings.NewReader(body))
	if secret != "" {
		req.Header.Set(secretHeader, secret)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReceiveAcknowledges(t *testing.T) {
	store := newFakeStore()
	seedAgent(store)
	r := newTestRouter(store, nil)

	w := deliver(r, testSecret, endOfCallBody)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"processed":true`)
	assert.Len(t, store.calls, 1)
}

func TestReceiveRejectsBadSecret(t *testing.T) {
	store := newFakeStore()
	seedAgent(store)
	r := newTestRouter(store, nil)

	for name, secret := range map[string]string{"missing": "", "wrong": "nope"} {
		t.Run(name, func(t *testing.T) {
			w := deliver(r, secret, endOfCallBody)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
	assert.Empty(t, store.calls, "rejected deliveries must not be persisted")
}

func TestReceiveStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"message":`, http.StatusBadRequest},
		{"unrecognized shape", `{"hello": "world"}`, http.StatusBadRequest},
		{"missing assistant id", `{"message": {"type": "end-of-call-report", "call": {"id": "c"}, "artifact": {}}}`, http.StatusBadRequest},
		{"status update acknowledged", `{"message": {"type": "status-update", "call": {"id": "c", "assistant": {"id": "asst-1"}}}}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			seedAgent(store)
			r := newTestRouter(store, nil)
			w := deliver(r, testSecret, tt.body)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestReceiveUnknownAgentIs404(t *testing.T) {
	r := newTestRouter(newFakeStore(), nil)
	w := deliver(r, testSecret, endOfCallBody)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReceiveStorageFailureIs500(t *testing.T) {
	store := newFakeStore()
	seedAgent(store)
	store.upsertErr = assert.AnError
	r := newTestRouter(store, nil)

	w := deliver(r, testSecret, endOfCallBody)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// internal detail must not leak to the sender
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestReceiveRecordsDeliveryLog(t *testing.T) {
	store := newFakeStore()
	seedAgent(store)
	auditor := audit.NewService(audit.NewMemoryRepo(10))
	r := newTestRouter(store, auditor)

	deliver(r, testSecret, endOfCallBody)
	deliver(r, "nope", endOfCallBody)

	events, err := auditor.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	// newest first
	assert.Equal(t, "rejected", events[0].Outcome)
	assert.Equal(t, "processed", events[1].Outcome)
	assert.Equal(t, "call-1", events[1].CallID)
	assert.NotZero(t, events[1].PayloadSize)
}

func TestVerifyPing(t *testing.T) {
	r := newTestRouter(newFakeStore(), nil)
	req := httptest.NewRequest(http.MethodGet, "/webhooks/vapi", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ready")
}
