package activity

import (
	"context"
	"time"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Activity is one entry of a browser's activity log.
type Activity struct {
	ID        uint
	BrowserID string
	Action    string
	Target    string
	Status    Status
	Message   string
	CreatedAt time.Time
}

type FindParams struct {
	BrowserID string
	Action    string
	Status    Status
	Limit     int
	Offset    int
}

type Repository interface {
	List(ctx context.Context, params *FindParams) ([]*Activity, error)
	Count(ctx context.Context, params *FindParams) (int64, error)
	Create(ctx context.Context, a *Activity) error
	// Clear removes every entry of browserID and returns how many were removed.
	Clear(ctx context.Context, browserID string) (int64, error)
}
