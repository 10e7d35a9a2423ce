package agents

import (
	"context"
	"database/sql"
	"errors"
)

// NOTE: This repository assumes the following table exists:
//
// agents(
//   id BIGSERIAL PRIMARY KEY,
//   agent_name TEXT NOT NULL,
//   vapi_assistant_id TEXT NOT NULL UNIQUE,
//   voice TEXT NOT NULL DEFAULT '',
//   model TEXT NOT NULL DEFAULT '',
//   call_count BIGINT NOT NULL DEFAULT 0,
//   created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//   updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
// )

var ErrNotFound = errors.New("agents: not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository { return &Repository{db: db} }

func (r *Repository) FindByAssistantID(ctx context.Context, assistantID string) (Agent, error) {
	const q = `
SELECT id, agent_name, vapi_assistant_id, voice, model, call_count, created_at, updated_at
FROM agents
WHERE vapi_assistant_id = $1
`
	var a Agent
	if err := r.db.QueryRowContext(ctx, q, assistantID).Scan(
		&a.ID,
		&a.AgentName,
		&a.VapiAssistantID,
		&a.Voice,
		&a.Model,
		&a.CallCount,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Agent{}, ErrNotFound
		}
		return Agent{}, err
	}
	return a, nil
}

func (r *Repository) List(ctx context.Context) ([]Agent, error) {
	const q = `
SELECT id, agent_name, vapi_assistant_id, voice, model, call_count, created_at, updated_at
FROM agents
ORDER BY created_at DESC
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Agent
	for rows.Next() {
		var a Agent
		if err := rows.Scan(
			&a.ID,
			&a.AgentName,
			&a.VapiAssistantID,
			&a.Voice,
			&a.Model,
			&a.CallCount,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// IncrementCallCount bumps the per-agent counter by one.
// The increment happens inside the UPDATE so concurrent deliveries for the
// same agent cannot lose updates.
func (r *Repository) IncrementCallCount(ctx context.Context, assistantID string) error {
	const q = `
UPDATE agents
SET call_count = call_count + 1,
    updated_at = NOW()
WHERE vapi_assistant_id = $1
`
	res, err := r.db.ExecContext(ctx, q, assistantID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
