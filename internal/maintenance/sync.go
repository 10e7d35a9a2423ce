// Package maintenance holds operator-triggered upkeep tasks, currently the
// assistant webhook URL sync.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"voiceagent-dashboard/internal/agents"
	"voiceagent-dashboard/internal/voice"
	"voiceagent-dashboard/pkg/logger"
)

// AgentLister is the slice of agent storage the syncer needs.
type AgentLister interface {
	List(ctx context.Context) ([]agents.Agent, error)
}

// SyncResult is the outcome for one agent.
type SyncResult struct {
	AgentID     int64  `json:"agent_id"`
	AgentName   string `json:"agent_name"`
	AssistantID string `json:"assistant_id"`
	Synced      bool   `json:"synced"`
	Error       string `json:"error,omitempty"`
}

// Syncer points every known assistant's webhook at this deployment's inbound
// endpoint. Run after changing the public URL or rotating the shared secret.
type Syncer struct {
	lister   AgentLister
	provider voice.Provider

	serverURL string
	secret    string
}

func NewSyncer(lister AgentLister, provider voice.Provider, serverURL, secret string) *Syncer {
	return &Syncer{lister: lister, provider: provider, serverURL: serverURL, secret: secret}
}

// Sync updates each assistant in turn and reports per-agent outcomes. One
// failing assistant must not block the rest; the caller decides whether a
// partial sync warrants a retry.
func (s *Syncer) Sync(ctx context.Context) ([]SyncResult, error) {
	if s.serverURL == "" {
		return nil, fmt.Errorf("maintenance: no public webhook URL configured")
	}

	list, err := s.lister.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("maintenance: list agents: %w", err)
	}

	log := logger.From(ctx)
	start := time.Now()
	results := make([]SyncResult, 0, len(list))
	failed := 0

	for _, a := range list {
		r := SyncResult{AgentID: a.ID, AgentName: a.AgentName, AssistantID: a.VapiAssistantID}
		if a.VapiAssistantID == "" {
			r.Error = "agent has no assistant id"
			failed++
			results = append(results, r)
			continue
		}
		if err := s.provider.UpdateAssistantServer(ctx, a.VapiAssistantID, s.serverURL, s.secret); err != nil {
			r.Error = err.Error()
			failed++
			log.Warn("assistant webhook sync failed", "assistant_id", a.VapiAssistantID, "err", err)
		} else {
			r.Synced = true
		}
		results = append(results, r)
	}

	log.Info("webhook sync finished",
		"agents", len(list),
		"failed", failed,
		"elapsed", time.Since(start),
	)
	return results, nil
}
