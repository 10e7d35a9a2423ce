package webhook

import (
	"encoding/json"
	"math"
	"time"

	"voiceagent-dashboard/internal/calls"
)

// BuildRecord composes a canonical call record from the classified payload,
// the resolved identifiers and the agent row. It is a pure function: all
// fallback decisions happen here, nothing is fetched.
func BuildRecord(cls Classified, kind EventKind, agentID int64, assistantID, callID string, raw json.RawMessage, now time.Time) calls.Record {
	call := cls.Call
	artifact := cls.Artifact

	rec := calls.Record{
		VapiCallID:      callID,
		VapiAssistantID: assistantID,
		AgentID:         agentID,
		RawPayload:      raw,
	}

	rec.Status = normalizeStatus(stringAt(call, "status"), kind)

	startedAt, haveStart := timeAt(call, "startedAt")
	if !haveStart {
		startedAt, haveStart = timeAt(call, "createdAt")
	}
	if !haveStart {
		startedAt = now.UTC()
	}
	rec.StartedAt = startedAt

	if endedAt, ok := timeAt(call, "endedAt"); ok {
		rec.EndedAt = &endedAt
	}

	// Duration is computed, never trusted blindly: explicit value when the
	// payload carries one, else derived from the timestamps.
	if d, ok := floatAt(call, "duration"); ok {
		sec := int(math.Round(d))
		rec.DurationSeconds = &sec
	} else if rec.EndedAt != nil && haveStart {
		sec := int(math.Round(rec.EndedAt.Sub(rec.StartedAt).Seconds()))
		rec.DurationSeconds = &sec
	}

	if v := stringAt(call, "endedReason"); v != "" {
		rec.EndReason = &v
	}

	if v := firstString(
		stringAt(call, "phoneNumber"),
		stringAt(mapAt(call, "customer"), "number"),
	); v != nil {
		rec.PhoneNumber = v
	}

	rec.Transcript = AssembleTranscript(artifact, call)

	analysis := mapAt(call, "analysis")
	if analysis == nil {
		analysis = mapAt(artifact, "analysis")
	}

	rec.Summary = firstString(
		stringAt(call, "summary"),
		stringAt(artifact, "summary"),
		stringAt(analysis, "summary"),
	)

	rec.RecordingURL = firstString(
		stringAt(call, "recordingUrl"),
		stringAt(artifact, "recordingUrl"),
		stringAt(artifact, "recording"),
	)

	a := ExtractAnalytics(analysis)
	rec.Sentiment = a.Sentiment
	rec.Intent = a.Intent
	rec.SatisfactionScore = a.Satisfaction

	if v, ok := floatAt(call, "cost"); ok {
		rec.CostUSD = &v
	}

	return rec
}

// normalizeStatus maps the provider status onto the local enum. A call-ended
// event without a usable status is still an ended call.
func normalizeStatus(s string, kind EventKind) calls.Status {
	if st, ok := calls.ParseStatus(s); ok {
		return st
	}
	if kind == EventCallEnded {
		return calls.StatusEnded
	}
	return calls.StatusInProgress
}

func firstString(candidates ...string) *string {
	for _, v := range candidates {
		if v != "" {
			return &v
		}
	}
	return nil
}

func timeAt(m map[string]any, key string) (time.Time, bool) {
	v := stringAt(m, key)
	if v == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
