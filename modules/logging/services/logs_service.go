package services

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iota-uz/hcm-console/modules/logging/domain/entities/activity"
	"github.com/iota-uz/hcm-console/pkg/composables"
)

// maxMessageLength bounds stored messages; backend error bodies can be
// whole HTML pages.
const maxMessageLength = 500

type LogsService struct {
	repo  activity.Repository
	pool  *pgxpool.Pool
	limit int
}

// NewLogsService creates the service. pool is bound to every repository
// call when set; limit caps how many entries List returns.
func NewLogsService(repo activity.Repository, pool *pgxpool.Pool, limit int) *LogsService {
	if limit <= 0 {
		limit = 200
	}
	return &LogsService{repo: repo, pool: pool, limit: limit}
}

func (s *LogsService) Limit() int {
	return s.limit
}

func (s *LogsService) withDB(ctx context.Context) context.Context {
	if s.pool == nil {
		return ctx
	}
	if _, err := composables.UseTx(ctx); err == nil {
		return ctx
	}
	return composables.WithPool(ctx, s.pool)
}

func (s *LogsService) Record(ctx context.Context, a *activity.Activity) error {
	if a == nil {
		return errors.New("activity payload is required")
	}
	if a.BrowserID == "" {
		return errors.New("activity without browser id")
	}
	if r := []rune(a.Message); len(r) > maxMessageLength {
		a.Message = string(r[:maxMessageLength]) + "…"
	}
	return s.repo.Create(s.withDB(ctx), a)
}

// List returns the newest entries of browserID and the total count.
func (s *LogsService) List(ctx context.Context, browserID string) ([]*activity.Activity, int64, error) {
	ctx = s.withDB(ctx)
	params := &activity.FindParams{BrowserID: browserID, Limit: s.limit}
	logs, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.repo.Count(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return logs, count, nil
}

// Recent returns at most n of the newest entries of browserID.
func (s *LogsService) Recent(ctx context.Context, browserID string, n int) ([]*activity.Activity, error) {
	return s.repo.List(s.withDB(ctx), &activity.FindParams{BrowserID: browserID, Limit: n})
}

func (s *LogsService) Clear(ctx context.Context, browserID string) (int64, error) {
	return s.repo.Clear(s.withDB(ctx), browserID)
}
