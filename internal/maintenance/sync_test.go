package maintenance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voiceagent-dashboard/internal/agents"
)

type stubLister struct {
	list []agents.Agent
	err  error
}

func (s *stubLister) List(ctx context.Context) ([]agents.Agent, error) { return s.list, s.err }

type stubProvider struct {
	updated map[string]string // assistant id -> server url
	failFor map[string]error
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) GetCall(ctx context.Context, callID string) (map[string]any, error) {
	return nil, errors.New("stub: not implemented")
}

func (p *stubProvider) ListCalls(ctx context.Context) ([]map[string]any, error) {
	return nil, errors.New("stub: not implemented")
}

func (p *stubProvider) UpdateAssistantServer(ctx context.Context, assistantID, serverURL, secret string) error {
	if err := p.failFor[assistantID]; err != nil {
		return err
	}
	if p.updated == nil {
		p.updated = make(map[string]string)
	}
	p.updated[assistantID] = serverURL
	return nil
}

func TestSyncUpdatesAllAssistants(t *testing.T) {
	lister := &stubLister{list: []agents.Agent{
		{ID: 1, AgentName: "A", VapiAssistantID: "asst-1"},
		{ID: 2, AgentName: "B", VapiAssistantID: "asst-2"},
	}}
	provider := &stubProvider{}
	s := NewSyncer(lister, provider, "https://app.example.com/webhooks/vapi", "whsec")

	results, err := s.Sync(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.Synced)
		assert.Empty(t, r.Error)
	}
	assert.Equal(t, "https://app.example.com/webhooks/vapi", provider.updated["asst-1"])
	assert.Equal(t, "https://app.example.com/webhooks/vapi", provider.updated["asst-2"])
}

func TestSyncContinuesPastFailures(t *testing.T) {
	lister := &stubLister{list: []agents.Agent{
		{ID: 1, AgentName: "A", VapiAssistantID: "asst-1"},
		{ID: 2, AgentName: "B", VapiAssistantID: "asst-2"},
		{ID: 3, AgentName: "C"}, // no assistant id
	}}
	provider := &stubProvider{failFor: map[string]error{"asst-1": errors.New("upstream 502")}}
	s := NewSyncer(lister, provider, "https://app.example.com/webhooks/vapi", "whsec")

	results, err := s.Sync(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.False(t, results[0].Synced)
	assert.Contains(t, results[0].Error, "502")
	assert.True(t, results[1].Synced)
	assert.False(t, results[2].Synced)
}

func TestSyncRequiresServerURL(t *testing.T) {
	s := NewSyncer(&stubLister{}, &stubProvider{}, "", "whsec")
	_, err := s.Sync(context.Background())
	assert.Error(t, err)
}

func TestSyncListFailure(t *testing.T) {
	s := NewSyncer(&stubLister{err: errors.New("pq: down")}, &stubProvider{},
		"https://app.example.com/webhooks/vapi", "whsec")
	_, err := s.Sync(context.Background())
	assert.Error(t, err)
}
