package webhook

import (
	"context"

	"voiceagent-dashboard/internal/agents"
	"voiceagent-dashboard/internal/calls"
)

// AgentLookup is satisfied by both agents.Repository and agents.CachedLookup.
type AgentLookup interface {
	FindByAssistantID(ctx context.Context, assistantID string) (agents.Agent, error)
}

// SQLStore adapts the agents and calls repositories to the pipeline's Store
// contract.
type SQLStore struct {
	lookup AgentLookup
	agents *agents.Repository
	calls  *calls.Repository
}

func NewSQLStore(lookup AgentLookup, agentRepo *agents.Repository, callRepo *calls.Repository) *SQLStore {
	return &SQLStore{lookup: lookup, agents: agentRepo, calls: callRepo}
}

func (s *SQLStore) FindAgentByAssistantID(ctx context.Context, assistantID string) (agents.Agent, error) {
	return s.lookup.FindByAssistantID(ctx, assistantID)
}

func (s *SQLStore) UpsertCall(ctx context.Context, rec calls.Record) (calls.Call, bool, error) {
	return s.calls.Upsert(ctx, rec)
}

func (s *SQLStore) IncrementAgentCallCount(ctx context.Context, assistantID string) error {
	return s.agents.IncrementCallCount(ctx, assistantID)
}
