// Package importer backfills historical calls from the provider API into the
// same storage the webhook pipeline writes, through the same normalization
// path. A backfilled call and a webhook-delivered call are indistinguishable
// once stored.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"voiceagent-dashboard/internal/agents"
	"voiceagent-dashboard/internal/metrics"
	"voiceagent-dashboard/internal/voice"
	"voiceagent-dashboard/internal/webhook"
	"voiceagent-dashboard/pkg/logger"
)

// Summary reports one import run.
type Summary struct {
	Fetched  int `json:"fetched"`
	Imported int `json:"imported"`
	// Skipped counts calls belonging to assistants with no local agent row.
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
	// Counted counts calls that moved an agent call counter during this run.
	// Re-running an import leaves counters untouched.
	Counted int `json:"counted"`
}

type Importer struct {
	store    webhook.Store
	provider voice.Provider
	metrics  *metrics.Metrics
	now      func() time.Time
}

func New(store webhook.Store, provider voice.Provider, m *metrics.Metrics) *Importer {
	return &Importer{store: store, provider: provider, metrics: m, now: time.Now}
}

// Run fetches every call visible to the API key and upserts each one. Per-call
// failures are tallied, not fatal: a bad document must not sink the backfill.
func (im *Importer) Run(ctx context.Context) (Summary, error) {
	log := logger.From(ctx)

	docs, err := im.provider.ListCalls(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("importer: list calls: %w", err)
	}

	var sum Summary
	sum.Fetched = len(docs)

	for _, doc := range docs {
		counted, err := im.importOne(ctx, doc)
		switch {
		case err == nil:
			sum.Imported++
			if im.metrics != nil {
				im.metrics.ImportedCalls.Inc()
			}
			if counted {
				sum.Counted++
			}
		case errors.Is(err, errUnknownAgent):
			sum.Skipped++
		default:
			sum.Failed++
			log.Warn("call import failed", "err", err)
		}
	}

	log.Info("import run finished",
		"fetched", sum.Fetched,
		"imported", sum.Imported,
		"skipped", sum.Skipped,
		"failed", sum.Failed,
	)
	return sum, nil
}

var errUnknownAgent = errors.New("importer: no agent for assistant")

func (im *Importer) importOne(ctx context.Context, doc map[string]any) (bool, error) {
	// API call documents are bare call objects; wrapping them puts them
	// through the same classification the webhook path uses.
	cls, err := webhook.Classify(map[string]any{"call": doc})
	if err != nil {
		return false, err
	}

	assistantID, err := cls.AssistantID()
	if err != nil {
		return false, err
	}
	callID, err := cls.CallID()
	if err != nil {
		return false, err
	}

	agent, err := im.store.FindAgentByAssistantID(ctx, assistantID)
	if err != nil {
		if errors.Is(err, agents.ErrNotFound) {
			return false, fmt.Errorf("%w: %s", errUnknownAgent, assistantID)
		}
		return false, fmt.Errorf("importer: agent lookup: %w", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("importer: marshal call %s: %w", callID, err)
	}

	rec := webhook.BuildRecord(cls, webhook.EventCallEnded, agent.ID, assistantID, callID, raw, im.now())

	_, claimed, err := im.store.UpsertCall(ctx, rec)
	if err != nil {
		return false, fmt.Errorf("importer: upsert call %s: %w", callID, err)
	}

	if claimed {
		if err := im.store.IncrementAgentCallCount(ctx, assistantID); err != nil {
			logger.From(ctx).Error("call counter increment failed",
				"assistant_id", assistantID, "err", err)
			return false, nil
		}
		return true, nil
	}
	return false, nil
}
