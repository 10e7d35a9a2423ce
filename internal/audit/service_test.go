package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendFillsDefaults(t *testing.T) {
	repo := NewMemoryRepo(10)
	svc := NewService(repo)
	fixed := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	svc.clock = func() time.Time { return fixed }

	err := svc.Append(context.Background(), Event{Outcome: "processed", CallID: "call-1"})
	require.NoError(t, err)

	events, err := svc.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].ID)
	assert.Equal(t, fixed, events[0].ReceivedAt)
	assert.Equal(t, "call-1", events[0].CallID)
}

func TestAppendRejectsMissingOutcome(t *testing.T) {
	svc := NewService(NewMemoryRepo(10))
	err := svc.Append(context.Background(), Event{})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestRecentNewestFirstAndCapped(t *testing.T) {
	repo := NewMemoryRepo(3)
	svc := NewService(repo)

	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, svc.Append(context.Background(), Event{ID: id, Outcome: "processed"}))
	}

	events, err := svc.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 3, "log stays capped")
	assert.Equal(t, "d", events[0].ID)
	assert.Equal(t, "c", events[1].ID)
	assert.Equal(t, "b", events[2].ID)
}

func TestRecentClampsLimit(t *testing.T) {
	repo := NewMemoryRepo(5)
	svc := NewService(repo)
	require.NoError(t, svc.Append(context.Background(), Event{Outcome: "processed"}))

	events, err := svc.Recent(context.Background(), -1)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
