package audit

import (
	"context"
	"sync"
)

// MemoryRepo is a capped in-memory repository for tests.
type MemoryRepo struct {
	mu     sync.Mutex
	max    int
	events []Event
}

func NewMemoryRepo(max int) *MemoryRepo {
	if max <= 0 {
		max = 100
	}
	return &MemoryRepo{max: max}
}

func (r *MemoryRepo) Append(ctx context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append([]Event{e}, r.events...)
	if len(r.events) > r.max {
		r.events = r.events[:r.max]
	}
	return nil
}

func (r *MemoryRepo) Recent(ctx context.Context, limit int) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit > len(r.events) {
		limit = len(r.events)
	}
	out := make([]Event, limit)
	copy(out, r.events[:limit])
	return out, nil
}
