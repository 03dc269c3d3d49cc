package services

import (
	"context"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hcm-console/modules/logging/domain/entities/activity"
	"github.com/iota-uz/hcm-console/pkg/backend"
)

const (
	TileUsers = "users"
	TileRoles = "roles"
	TileAORs  = "aors"

	// ValueError replaces a count whose call failed.
	ValueError = "Error"
	// ValueNotAvailable is shown for counts the backend cannot provide.
	ValueNotAvailable = "N/A"

	DefaultRecent = 5
)

type TileState int

const (
	TileOK TileState = iota
	TileUnavailable
	TileFailed
)

type Tile struct {
	Key   string
	Value string
	State TileState
	// Err is the failure text of the count call.
	Err string
}

// Dashboard is one snapshot of the dashboard screen.
type Dashboard struct {
	Tiles     []Tile
	Recent    []*activity.Activity
	RecentErr error
	At        time.Time
}

func (d *Dashboard) Tile(key string) (Tile, bool) {
	for _, t := range d.Tiles {
		if t.Key == key {
			return t, true
		}
	}
	return Tile{}, false
}

// Values maps tile keys to the text shown in each tile.
func (d *Dashboard) Values() map[string]string {
	out := make(map[string]string, len(d.Tiles))
	for _, t := range d.Tiles {
		out[t.Key] = t.Value
	}
	return out
}

// ActivityFeed supplies the recent activities of a browser.
type ActivityFeed interface {
	Recent(ctx context.Context, browserID string, n int) ([]*activity.Activity, error)
}

type DashboardService struct {
	client *backend.Client
	feed   ActivityFeed
	recent int
	log    *logrus.Entry
}

func NewDashboardService(client *backend.Client, feed ActivityFeed, recent int, logger *logrus.Logger) *DashboardService {
	if recent <= 0 {
		recent = DefaultRecent
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DashboardService{
		client: client,
		feed:   feed,
		recent: recent,
		log:    logger.WithField("component", "dashboard"),
	}
}

// Load runs the count calls one after another and reads the recent
// activities last. A failed count never aborts the others.
func (s *DashboardService) Load(ctx context.Context, browserID string, cfg *backend.ConnectionConfig) (*Dashboard, error) {
	d := &Dashboard{At: time.Now()}

	d.Tiles = append(d.Tiles, s.count(TileUsers, s.client.ListUsers(ctx, cfg), func(res backend.OperationResult) (int, error) {
		var page backend.UsersPage
		err := res.Decode(&page)
		return len(page.Resources), err
	}))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.Tiles = append(d.Tiles, Tile{Key: TileRoles, Value: ValueNotAvailable, State: TileUnavailable})

	d.Tiles = append(d.Tiles, s.count(TileAORs, s.client.ListAORs(ctx, cfg), func(res backend.OperationResult) (int, error) {
		var page backend.AORPage
		err := res.Decode(&page)
		return len(page.Items), err
	}))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.feed != nil {
		d.Recent, d.RecentErr = s.feed.Recent(ctx, browserID, s.recent)
	}
	return d, nil
}

func (s *DashboardService) count(key string, res backend.OperationResult, decode func(backend.OperationResult) (int, error)) Tile {
	if !res.Success {
		s.log.WithField("tile", key).WithField("kind", res.Kind.String()).Debug(res.Error)
		return Tile{Key: key, Value: ValueError, State: TileFailed, Err: res.Error}
	}
	n, err := decode(res)
	if err != nil {
		return Tile{Key: key, Value: ValueError, State: TileFailed, Err: err.Error()}
	}
	return Tile{Key: key, Value: strconv.Itoa(n)}
}
