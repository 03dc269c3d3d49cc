package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"

	"github.com/iota-uz/hcm-console/modules/logging/domain/entities/activity"
)

// MemoryRepository keeps the newest limit activities of every browser.
type MemoryRepository struct {
	limit int

	mu     sync.RWMutex
	nextID uint
	logs   map[string][]*activity.Activity
}

func NewMemoryRepository(limit int) *MemoryRepository {
	if limit <= 0 {
		limit = 200
	}
	return &MemoryRepository{limit: limit, logs: make(map[string][]*activity.Activity)}
}

func (r *MemoryRepository) filter(params *activity.FindParams) []*activity.Activity {
	if params == nil {
		return nil
	}
	entries := r.logs[params.BrowserID]
	out := make([]*activity.Activity, 0, len(entries))
	// newest first
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if params.Action != "" && e.Action != params.Action {
			continue
		}
		if params.Status != "" && e.Status != params.Status {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (r *MemoryRepository) List(_ context.Context, params *activity.FindParams) ([]*activity.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := r.filter(params)
	if params != nil && params.Offset > 0 {
		if params.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[params.Offset:]
	}
	if params != nil && params.Limit > 0 && len(matched) > params.Limit {
		matched = matched[:params.Limit]
	}
	out := make([]*activity.Activity, len(matched))
	for i, e := range matched {
		c := *e
		out[i] = &c
	}
	return out, nil
}

func (r *MemoryRepository) Count(_ context.Context, params *activity.FindParams) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.filter(params))), nil
}

func (r *MemoryRepository) Create(_ context.Context, a *activity.Activity) error {
	if a == nil {
		return errors.New("activity is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = r.nextID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	c := *a
	entries := append(r.logs[a.BrowserID], &c)
	if over := len(entries) - r.limit; over > 0 {
		entries = append(entries[:0:0], entries[over:]...)
	}
	r.logs[a.BrowserID] = entries
	return nil
}

func (r *MemoryRepository) Clear(_ context.Context, browserID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.logs[browserID])
	delete(r.logs, browserID)
	return int64(n), nil
}
