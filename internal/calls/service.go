package calls

import (
	"context"
	"errors"
	"time"
)

// Stats is the dashboard aggregate over the call store.
type Stats struct {
	Total    int `json:"total"`
	Today    int `json:"today"`
	ThisWeek int `json:"this_week"`

	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	InProgress int `json:"in_progress"`

	TotalDurationSeconds int     `json:"total_duration_seconds"`
	AvgDurationSeconds   float64 `json:"avg_duration_seconds"`
	TotalCostUSD         float64 `json:"total_cost_usd"`

	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Service exposes the read side of the call store to the dashboard API.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service { return &Service{repo: repo} }

func (s *Service) Recent(ctx context.Context, limit int) ([]Call, error) {
	if s.repo == nil {
		return nil, errors.New("calls: repository not configured")
	}
	return s.repo.Recent(ctx, limit)
}

func (s *Service) ByID(ctx context.Context, id int64) (Call, error) {
	if s.repo == nil {
		return Call{}, errors.New("calls: repository not configured")
	}
	return s.repo.ByID(ctx, id)
}

func (s *Service) ByVapiCallID(ctx context.Context, vapiCallID string) (Call, error) {
	if s.repo == nil {
		return Call{}, errors.New("calls: repository not configured")
	}
	return s.repo.ByVapiCallID(ctx, vapiCallID)
}

// StatsNow aggregates over the whole table in one pass. "Today" and "this
// week" are computed relative to now in UTC.
func (s *Service) StatsNow(ctx context.Context, now time.Time) (Stats, error) {
	if s.repo == nil {
		return Stats{}, errors.New("calls: repository not configured")
	}

	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	const q = `
SELECT
  COUNT(*),
  COUNT(*) FILTER (WHERE started_at >= $1),
  COUNT(*) FILTER (WHERE started_at >= $2),
  COUNT(*) FILTER (WHERE status = 'ended'),
  COUNT(*) FILTER (WHERE status = 'failed'),
  COUNT(*) FILTER (WHERE status = 'in-progress'),
  COALESCE(SUM(duration_seconds), 0),
  COALESCE(AVG(duration_seconds), 0),
  COALESCE(SUM(cost_usd), 0),
  COUNT(*) FILTER (WHERE sentiment = 'positive'),
  COUNT(*) FILTER (WHERE sentiment = 'negative'),
  COUNT(*) FILTER (WHERE sentiment = 'neutral')
FROM calls
`
	var st Stats
	if err := s.repo.db.QueryRowContext(ctx, q, today, weekAgo).Scan(
		&st.Total,
		&st.Today,
		&st.ThisWeek,
		&st.Completed,
		&st.Failed,
		&st.InProgress,
		&st.TotalDurationSeconds,
		&st.AvgDurationSeconds,
		&st.TotalCostUSD,
		&st.Positive,
		&st.Negative,
		&st.Neutral,
	); err != nil {
		return Stats{}, err
	}
	return st, nil
}
