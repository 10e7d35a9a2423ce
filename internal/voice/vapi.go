package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"voiceagent-dashboard/internal/config"

	"github.com/cenkalti/backoff/v4"
)

var ErrCallNotFound = errors.New("voice: call not found")

// VapiClient talks to the Vapi HTTP API.
type VapiClient struct {
	baseURL    string
	privateKey string
	httpClient *http.Client
}

func NewVapiClient(cfg config.VapiConfig) *VapiClient {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &VapiClient{
		baseURL:    cfg.BaseURL,
		privateKey: cfg.PrivateKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *VapiClient) Name() string { return "vapi" }

func (c *VapiClient) GetCall(ctx context.Context, callID string) (map[string]any, error) {
	if callID == "" {
		return nil, errors.New("voice: call id is required")
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/call/"+url.PathEscape(callID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voice: get call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrCallNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError("get call", resp)
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("voice: decode call: %w", err)
	}
	return doc, nil
}

// ListCalls retries transient failures; a bulk import is operator-initiated
// and can afford a few seconds of backoff.
func (c *VapiClient) ListCalls(ctx context.Context) ([]map[string]any, error) {
	var out []map[string]any

	op := func() error {
		req, err := c.newRequest(ctx, http.MethodGet, "/call", nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("voice: list calls: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(statusError("list calls", resp))
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return statusError("list calls", resp)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("voice: read list body: %w", err)
		}
		calls, err := decodeCallList(body)
		if err != nil {
			return backoff.Permanent(err)
		}
		out = calls
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *VapiClient) UpdateAssistantServer(ctx context.Context, assistantID, serverURL, secret string) error {
	if assistantID == "" {
		return errors.New("voice: assistant id is required")
	}

	payload, err := json.Marshal(map[string]string{
		"serverUrl":       serverURL,
		"serverUrlSecret": secret,
	})
	if err != nil {
		return err
	}

	op := func() error {
		req, err := c.newRequest(ctx, http.MethodPatch, "/assistant/"+url.PathEscape(assistantID), bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("voice: update assistant: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(statusError("update assistant", resp))
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return statusError("update assistant", resp)
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 20 * time.Second
	return backoff.Retry(op, backoff.WithContext(b, ctx))
}

func (c *VapiClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.privateKey)
	return req, nil
}

// decodeCallList accepts both response shapes the API has used: a bare array
// and an object with a "data" array.
func decodeCallList(body []byte) ([]map[string]any, error) {
	var arr []map[string]any
	if err := json.Unmarshal(body, &arr); err == nil {
		return arr, nil
	}

	var wrapped struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("voice: decode call list: %w", err)
	}
	return wrapped.Data, nil
}

func statusError(op string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("voice: %s: unexpected status %d: %s", op, resp.StatusCode, bytes.TrimSpace(snippet))
}
