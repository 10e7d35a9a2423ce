package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"voiceagent-dashboard/internal/agents"
	"voiceagent-dashboard/internal/calls"
	"voiceagent-dashboard/internal/metrics"
	"voiceagent-dashboard/internal/voice"
	"voiceagent-dashboard/pkg/logger"
)

// Store is the persistence collaborator of the pipeline. All coordination
// under concurrent deliveries lives behind it: the upsert conflicts on the
// provider call id and the counter increment is atomic at the store.
type Store interface {
	FindAgentByAssistantID(ctx context.Context, assistantID string) (agents.Agent, error)
	// UpsertCall merge-writes the record and reports whether this delivery
	// claimed the one counter contribution for the call id.
	UpsertCall(ctx context.Context, rec calls.Record) (calls.Call, bool, error)
	IncrementAgentCallCount(ctx context.Context, assistantID string) error
}

// Result summarizes one processed delivery.
type Result struct {
	Kind    EventKind  `json:"event"`
	Shape   Shape      `json:"shape,omitempty"`
	CallID  string     `json:"call_id,omitempty"`
	AgentID int64      `json:"agent_id,omitempty"`
	Call    calls.Call `json:"-"`

	// Processed is false when the event kind short-circuits (status updates
	// and unknown kinds are acknowledged without persistence).
	Processed bool `json:"processed"`
	// Enriched is true when the full call was fetched from the provider API.
	Enriched bool `json:"enriched,omitempty"`
	// Counted is true when this delivery incremented the agent call counter.
	Counted bool `json:"counted,omitempty"`
	// Degraded is true when enrichment was needed but failed; the record was
	// persisted without conversational detail.
	Degraded bool `json:"degraded,omitempty"`
}

// Processor runs the normalization and idempotent persistence pipeline. It is
// stateless: every delivery is an independent unit of work and may run
// concurrently with duplicates of itself.
type Processor struct {
	store    Store
	provider voice.Provider
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewProcessor(store Store, provider voice.Provider, m *metrics.Metrics) *Processor {
	return &Processor{store: store, provider: provider, metrics: m, now: time.Now}
}

// Process takes one raw delivery body through classify → extract → resolve →
// enrich → normalize → persist → count. Every stage is safe to re-run for the
// same payload; the sender's at-least-once retries converge on one row.
func (p *Processor) Process(ctx context.Context, raw []byte) (Result, error) {
	start := p.now()
	res, err := p.process(ctx, raw)
	if p.metrics != nil {
		p.metrics.ProcessDuration.Observe(p.now().Sub(start).Seconds())
		p.metrics.DeliveriesTotal.WithLabelValues(string(res.Kind), outcomeLabel(res, err)).Inc()
	}
	return res, err
}

func (p *Processor) process(ctx context.Context, raw []byte) (Result, error) {
	log := logger.From(ctx)

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Result{Kind: EventOther}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	cls, err := Classify(doc)
	if err != nil {
		return Result{Kind: EventOther}, err
	}

	res := Result{Kind: cls.EventKind(), Shape: cls.Shape}

	assistantID, err := cls.AssistantID()
	if err != nil {
		return res, err
	}

	if res.Kind != EventCallEnded {
		// Status updates and unknown kinds are acknowledged without
		// persistence; the end-of-call report carries everything we store.
		log.Debug("webhook event ignored", "event", string(res.Kind), "shape", string(cls.Shape))
		return res, nil
	}

	callID, err := cls.CallID()
	if err != nil {
		return res, err
	}
	res.CallID = callID

	agent, err := p.store.FindAgentByAssistantID(ctx, assistantID)
	if err != nil {
		if errors.Is(err, agents.ErrNotFound) {
			return res, fmt.Errorf("%w: %s", ErrAgentNotFound, assistantID)
		}
		return res, fmt.Errorf("%w: agent lookup: %v", ErrStorageWriteFailed, err)
	}
	res.AgentID = agent.ID

	if cls.NeedsEnrichment && p.provider != nil {
		enriched, fetchErr := p.provider.GetCall(ctx, callID)
		if fetchErr != nil {
			// Degrade, never abort: the call's existence and outcome are
			// known even without conversational detail, and a later sender
			// retry gives enrichment a second chance over the upsert.
			if p.metrics != nil {
				p.metrics.EnrichmentFailures.Inc()
			}
			log.Warn("enrichment fetch failed, persisting degraded record",
				"call_id", callID, "err", fetchErr)
			res.Degraded = true
		} else {
			cls.Call = enriched
			cls.Artifact = mapAt(enriched, "artifact")
			res.Enriched = true
		}
	}

	rec := BuildRecord(cls, res.Kind, agent.ID, assistantID, callID, raw, p.now())

	call, claimed, err := p.store.UpsertCall(ctx, rec)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrStorageWriteFailed, err)
	}
	res.Call = call
	res.Processed = true

	if claimed {
		if err := p.store.IncrementAgentCallCount(ctx, assistantID); err != nil {
			// The call record is the authoritative artifact; the counter is a
			// best-effort derived statistic.
			if p.metrics != nil {
				p.metrics.CounterIncrementFailures.Inc()
			}
			log.Error("call counter increment failed", "assistant_id", assistantID, "err", err)
		} else {
			res.Counted = true
		}
	}

	log.Info("call event persisted",
		"call_id", callID,
		"agent_id", agent.ID,
		"shape", string(cls.Shape),
		"enriched", res.Enriched,
		"degraded", res.Degraded,
		"counted", res.Counted,
	)
	return res, nil
}

func outcomeLabel(res Result, err error) string {
	switch {
	case err != nil:
		return "rejected"
	case !res.Processed:
		return "ignored"
	case res.Degraded:
		return "degraded"
	default:
		return "processed"
	}
}
