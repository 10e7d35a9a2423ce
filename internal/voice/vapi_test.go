package voice

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voiceagent-dashboard/internal/config"
)

func newTestClient(srvURL string) *VapiClient {
	return NewVapiClient(config.VapiConfig{
		BaseURL:     srvURL,
		PrivateKey:  "pk-test",
		HTTPTimeout: 2 * time.Second,
	})
}

func TestGetCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/call/c-123" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer pk-test" {
			t.Errorf("missing bearer auth, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c-123","assistantId":"a-1","status":"ended"}`))
	}))
	defer srv.Close()

	doc, err := newTestClient(srv.URL).GetCall(context.Background(), "c-123")
	if err != nil {
		t.Fatalf("GetCall: %v", err)
	}
	if doc["id"] != "c-123" || doc["assistantId"] != "a-1" {
		t.Fatalf("unexpected doc: %v", doc)
	}
}

func TestGetCall_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetCall(context.Background(), "missing")
	if !errors.Is(err, ErrCallNotFound) {
		t.Fatalf("expected ErrCallNotFound, got %v", err)
	}
}

func TestListCalls_BareArrayAndWrapped(t *testing.T) {
	for name, body := range map[string]string{
		"bare":    `[{"id":"c-1"},{"id":"c-2"}]`,
		"wrapped": `{"data":[{"id":"c-1"},{"id":"c-2"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			calls, err := newTestClient(srv.URL).ListCalls(context.Background())
			if err != nil {
				t.Fatalf("ListCalls: %v", err)
			}
			if len(calls) != 2 || calls[0]["id"] != "c-1" {
				t.Fatalf("unexpected calls: %v", calls)
			}
		})
	}
}

func TestUpdateAssistantServer(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/assistant/a-1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		buf := make([]byte, r.ContentLength)
		_, _ = r.Body.Read(buf)
		gotBody = string(buf)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).UpdateAssistantServer(context.Background(), "a-1", "https://dash.example.com/webhooks/vapi", "whsec")
	if err != nil {
		t.Fatalf("UpdateAssistantServer: %v", err)
	}
	if gotBody == "" || gotBody[0] != '{' {
		t.Fatalf("expected JSON body, got %q", gotBody)
	}
}

func TestUpdateAssistantServer_PermanentOn4xx(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).UpdateAssistantServer(context.Background(), "a-1", "u", "s")
	if err == nil {
		t.Fatalf("expected error")
	}
	if hits != 1 {
		t.Fatalf("4xx must not be retried, got %d attempts", hits)
	}
}
