package calls

import (
	"context"
	"database/sql"
	"errors"

	"voiceagent-dashboard/pkg/utils"
)

// NOTE: This repository assumes the following table exists:
//
// calls(
//   id BIGSERIAL PRIMARY KEY,
//   vapi_call_id TEXT NOT NULL UNIQUE,
//   vapi_assistant_id TEXT NOT NULL,
//   agent_id BIGINT NOT NULL REFERENCES agents(id),
//   started_at TIMESTAMPTZ NOT NULL,
//   ended_at TIMESTAMPTZ,
//   duration_seconds INT,
//   status TEXT NOT NULL,
//   end_reason TEXT,
//   phone_number TEXT,
//   transcript TEXT,
//   summary TEXT,
//   recording_url TEXT,
//   sentiment TEXT NOT NULL DEFAULT 'neutral',
//   intent TEXT,
//   satisfaction_score NUMERIC,
//   cost_usd NUMERIC,
//   counted BOOLEAN NOT NULL DEFAULT FALSE,
//   raw_payload JSONB,
//   created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//   updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
// )

var ErrNotFound = errors.New("calls: not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository { return &Repository{db: db} }

const callColumns = `
id, vapi_call_id, vapi_assistant_id, agent_id,
started_at, ended_at, duration_seconds,
status, end_reason, phone_number,
transcript, summary, recording_url,
sentiment, intent, satisfaction_score, cost_usd,
counted, raw_payload, created_at, updated_at
`

func scanCall(row interface{ Scan(...any) error }) (Call, error) {
	var c Call
	err := row.Scan(
		&c.ID,
		&c.VapiCallID,
		&c.VapiAssistantID,
		&c.AgentID,
		&c.StartedAt,
		&c.EndedAt,
		&c.DurationSeconds,
		&c.Status,
		&c.EndReason,
		&c.PhoneNumber,
		&c.Transcript,
		&c.Summary,
		&c.RecordingURL,
		&c.Sentiment,
		&c.Intent,
		&c.SatisfactionScore,
		&c.CostUSD,
		&c.Counted,
		&c.RawPayload,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

// Upsert writes a canonical record keyed by vapi_call_id: insert when absent,
// merge-update otherwise. The merge never regresses a previously populated
// column back to NULL (COALESCE keeps the old value when the new one is nil).
//
// When the record is in a terminal ended state, the per-call counted flag is
// claimed inside the same transaction; claimed reports whether THIS delivery
// won the claim and therefore must increment the agent counter. Duplicate
// deliveries for the same call id can never claim twice.
func (r *Repository) Upsert(ctx context.Context, rec Record) (Call, bool, error) {
	var (
		out     Call
		claimed bool
	)

	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		const upsert = `
INSERT INTO calls (
  vapi_call_id, vapi_assistant_id, agent_id,
  started_at, ended_at, duration_seconds,
  status, end_reason, phone_number,
  transcript, summary, recording_url,
  sentiment, intent, satisfaction_score, cost_usd,
  raw_payload, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,NOW(),NOW()
)
ON CONFLICT (vapi_call_id) DO UPDATE SET
  vapi_assistant_id  = EXCLUDED.vapi_assistant_id,
  agent_id           = EXCLUDED.agent_id,
  started_at         = EXCLUDED.started_at,
  ended_at           = COALESCE(EXCLUDED.ended_at, calls.ended_at),
  duration_seconds   = COALESCE(EXCLUDED.duration_seconds, calls.duration_seconds),
  status             = EXCLUDED.status,
  end_reason         = COALESCE(EXCLUDED.end_reason, calls.end_reason),
  phone_number       = COALESCE(EXCLUDED.phone_number, calls.phone_number),
  transcript         = COALESCE(EXCLUDED.transcript, calls.transcript),
  summary            = COALESCE(EXCLUDED.summary, calls.summary),
  recording_url      = COALESCE(EXCLUDED.recording_url, calls.recording_url),
  sentiment          = EXCLUDED.sentiment,
  intent             = COALESCE(EXCLUDED.intent, calls.intent),
  satisfaction_score = COALESCE(EXCLUDED.satisfaction_score, calls.satisfaction_score),
  cost_usd           = COALESCE(EXCLUDED.cost_usd, calls.cost_usd),
  raw_payload        = EXCLUDED.raw_payload,
  updated_at         = NOW()
RETURNING ` + callColumns

		c, err := scanCall(tx.QueryRowContext(ctx, upsert,
			rec.VapiCallID,
			rec.VapiAssistantID,
			rec.AgentID,
			rec.StartedAt,
			rec.EndedAt,
			rec.DurationSeconds,
			rec.Status,
			rec.EndReason,
			rec.PhoneNumber,
			rec.Transcript,
			rec.Summary,
			rec.RecordingURL,
			rec.Sentiment,
			rec.Intent,
			rec.SatisfactionScore,
			rec.CostUSD,
			[]byte(rec.RawPayload),
		))
		if err != nil {
			return err
		}
		out = c

		if rec.Status != StatusEnded && rec.Status != StatusFailed {
			return nil
		}

		// Claim the counter contribution for this call id. The row lock from
		// the upsert above serializes concurrent claims for the same call.
		const claim = `
UPDATE calls
SET counted = TRUE
WHERE vapi_call_id = $1 AND counted = FALSE
RETURNING id
`
		var id int64
		switch err := tx.QueryRowContext(ctx, claim, rec.VapiCallID).Scan(&id); {
		case err == nil:
			claimed = true
			out.Counted = true
		case errors.Is(err, sql.ErrNoRows):
			// Already counted by an earlier delivery.
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return Call{}, false, err
	}
	return out, claimed, nil
}

func (r *Repository) ByID(ctx context.Context, id int64) (Call, error) {
	const q = `SELECT ` + callColumns + ` FROM calls WHERE id = $1`
	c, err := scanCall(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Call{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) ByVapiCallID(ctx context.Context, vapiCallID string) (Call, error) {
	const q = `SELECT ` + callColumns + ` FROM calls WHERE vapi_call_id = $1`
	c, err := scanCall(r.db.QueryRowContext(ctx, q, vapiCallID))
	if errors.Is(err, sql.ErrNoRows) {
		return Call{}, ErrNotFound
	}
	return c, err
}

func (r *Repository) Recent(ctx context.Context, limit int) ([]Call, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const q = `SELECT ` + callColumns + ` FROM calls ORDER BY started_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Call
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
