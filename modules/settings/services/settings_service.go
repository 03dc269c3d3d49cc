package services

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	sessions "github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/modules/settings/domain"
	"github.com/iota-uz/hcm-console/pkg/eventbus"
	"github.com/iota-uz/hcm-console/pkg/storage"
	"github.com/iota-uz/hcm-console/pkg/types"
)

// Saved is published after the settings of a browser changed.
type Saved struct {
	BrowserID string
	Settings  domain.Settings
}

type SettingsService struct {
	sessions  *sessions.SessionService
	publisher *eventbus.Bus
	log       *logrus.Entry
}

func NewSettingsService(sessionService *sessions.SessionService, publisher *eventbus.Bus, logger *logrus.Logger) *SettingsService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SettingsService{
		sessions:  sessionService,
		publisher: publisher,
		log:       logger.WithField("component", "settings"),
	}
}

func (s *SettingsService) store() storage.Store {
	return s.sessions.Store()
}

// Load returns the stored settings of browserID, or the defaults when none
// were saved.
func (s *SettingsService) Load(ctx context.Context, browserID string) (domain.Settings, error) {
	v, err := storage.Load[domain.Settings](ctx, s.store(), browserID, domain.RecordKey)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.Default(), nil
	}
	if err != nil {
		return domain.Default(), errors.Wrap(err, "load settings")
	}
	return v.Normalize(), nil
}

// Save validates and stores v, then reschedules the auto-refresh of the
// browser's workspace.
func (s *SettingsService) Save(ctx context.Context, browserID string, v domain.Settings) (domain.Settings, error) {
	v = v.Normalize()
	if err := v.Validate(); err != nil {
		return v, err
	}
	if err := storage.Save(ctx, s.store(), browserID, domain.RecordKey, v); err != nil {
		return v, errors.Wrap(err, "save settings")
	}
	s.apply(s.sessions.Workspace(ctx, browserID), v)
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, Saved{BrowserID: browserID, Settings: v}); err != nil && !errors.Is(err, eventbus.ErrNoSubscribers) {
			s.log.WithError(err).Warn("failed to publish settings.Saved")
		}
	}
	return v, nil
}

// Appearance resolves the layout settings of browserID. Load failures fall
// back to the defaults.
func (s *SettingsService) Appearance(ctx context.Context, browserID string) types.Appearance {
	v, err := s.Load(ctx, browserID)
	if err != nil {
		s.log.WithError(err).WithField("browser_id", browserID).Warn("using default appearance")
	}
	return v.Appearance()
}

// OnConnected starts the auto-refresh of a workspace that just connected.
func (s *SettingsService) OnConnected(ctx context.Context, e sessions.Connected) {
	v, err := s.Load(ctx, e.BrowserID)
	if err != nil {
		s.log.WithError(err).WithField("browser_id", e.BrowserID).Warn("auto-refresh not scheduled")
		return
	}
	s.apply(s.sessions.Workspace(ctx, e.BrowserID), v)
}

func (s *SettingsService) apply(ws *sessions.Workspace, v domain.Settings) {
	if !ws.Connected() {
		ws.ScheduleRefresh(0)
		return
	}
	ws.ScheduleRefresh(v.Interval())
}
