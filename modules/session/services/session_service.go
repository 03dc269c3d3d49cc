package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hcm-console/pkg/backend"
	"github.com/iota-uz/hcm-console/pkg/composables"
	"github.com/iota-uz/hcm-console/pkg/eventbus"
	"github.com/iota-uz/hcm-console/pkg/navigation"
	"github.com/iota-uz/hcm-console/pkg/notify"
	"github.com/iota-uz/hcm-console/pkg/storage"
)

// RecordConnection is the record holding the browser's last good credentials.
const RecordConnection = storage.ConnectionKey

var ErrNoWorkspace = errors.New("workspace not found in context")

// Loader loads the data of one screen for a workspace.
type Loader func(ctx context.Context, ws *Workspace) (any, error)

// RefreshFunc runs on every auto-refresh tick of a workspace.
type RefreshFunc func(ctx context.Context, ws *Workspace) error

// Connected is published after credentials were verified and stored.
type Connected struct {
	BrowserID string
	Username  string
}

// Disconnected is published after credentials were cleared.
type Disconnected struct {
	BrowserID string
}

type Options struct {
	// IdleTTL evicts workspaces not used for that long. Zero keeps them
	// until Close.
	IdleTTL time.Duration
	Logger  *logrus.Logger
}

type SessionService struct {
	client *backend.Client
	store  storage.Store
	bus    *eventbus.Bus
	log    *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	workspaces map[string]*Workspace
	loaders    map[navigation.Screen]Loader
	onRefresh  RefreshFunc
}

func NewSessionService(client *backend.Client, store storage.Store, bus *eventbus.Bus, opts Options) *SessionService {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &SessionService{
		client:     client,
		store:      store,
		bus:        bus,
		log:        logger.WithField("component", "session"),
		ctx:        ctx,
		cancel:     cancel,
		workspaces: make(map[string]*Workspace),
		loaders:    make(map[navigation.Screen]Loader),
	}
	if opts.IdleTTL > 0 {
		s.wg.Add(1)
		go s.evictLoop(opts.IdleTTL)
	}
	return s
}

func (s *SessionService) Client() *backend.Client {
	return s.client
}

// Workspaces is the number of live workspaces.
func (s *SessionService) Workspaces() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workspaces)
}

func (s *SessionService) Store() storage.Store {
	return s.store
}

// RegisterLoader sets the load action of screen for every workspace.
func (s *SessionService) RegisterLoader(screen navigation.Screen, loader Loader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaders[screen] = loader
}

func (s *SessionService) OnRefresh(fn RefreshFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRefresh = fn
}

// Workspace returns the workspace of browserID, creating it and restoring
// its persisted credentials on first use.
func (s *SessionService) Workspace(ctx context.Context, browserID string) *Workspace {
	s.mu.Lock()
	ws, ok := s.workspaces[browserID]
	if !ok {
		ws = s.newWorkspaceLocked(browserID)
		s.workspaces[browserID] = ws
	}
	s.mu.Unlock()

	ws.touch(time.Now())
	if !ok {
		s.restore(ctx, ws)
	}
	return ws
}

func (s *SessionService) newWorkspaceLocked(browserID string) *Workspace {
	var ws *Workspace
	loaders := make(map[navigation.Screen]navigation.Loader, len(s.loaders))
	for screen := range s.loaders {
		screen := screen
		loaders[screen] = func(ctx context.Context) (any, error) {
			s.mu.Lock()
			load := s.loaders[screen]
			s.mu.Unlock()
			return load(composables.WithBrowserID(ctx, browserID), ws)
		}
	}
	refreshFn := func(ctx context.Context) error {
		s.mu.Lock()
		fn := s.onRefresh
		s.mu.Unlock()
		if fn == nil {
			return nil
		}
		return fn(composables.WithBrowserID(ctx, browserID), ws)
	}
	ws = newWorkspace(s.ctx, browserID, loaders, refreshFn, s.log)
	return ws
}

func (s *SessionService) lookup(browserID string) (*Workspace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.workspaces[browserID]
	return ws, ok
}

func validate(cfg backend.ConnectionConfig) error {
	if strings.TrimSpace(cfg.InstanceURL) == "" ||
		strings.TrimSpace(cfg.Username) == "" ||
		strings.TrimSpace(cfg.Password) == "" {
		return errors.New(notify.MsgFillAllFields)
	}
	return nil
}

func normalize(cfg backend.ConnectionConfig) backend.ConnectionConfig {
	cfg.InstanceURL = strings.TrimRight(strings.TrimSpace(cfg.InstanceURL), "/")
	cfg.Username = strings.TrimSpace(cfg.Username)
	return cfg
}

func (s *SessionService) verify(ctx context.Context, cfg *backend.ConnectionConfig) backend.OperationResult {
	return s.client.ListUsers(ctx, cfg)
}

// Connect verifies cfg against the backend and, on success, makes it the
// workspace's credentials and persists it. A failed check leaves the
// previous state untouched.
func (s *SessionService) Connect(ctx context.Context, browserID string, cfg backend.ConnectionConfig) backend.OperationResult {
	if err := validate(cfg); err != nil {
		return backend.Invalid(err.Error())
	}
	cfg = normalize(cfg)
	ctx = composables.WithBrowserID(ctx, browserID)

	res := s.verify(ctx, &cfg)
	if !res.Success {
		return res
	}

	ws := s.Workspace(ctx, browserID)
	ws.setConfig(&cfg)
	if err := storage.Save(ctx, s.store, browserID, RecordConnection, cfg); err != nil {
		s.log.WithError(err).WithField("browser_id", browserID).Warn("failed to persist connection config")
	}
	s.publish(ctx, Connected{BrowserID: browserID, Username: cfg.Username})
	return res
}

// TestConnection runs the same validation and backend check as Connect and
// stores nothing.
func (s *SessionService) TestConnection(ctx context.Context, cfg backend.ConnectionConfig) backend.OperationResult {
	if err := validate(cfg); err != nil {
		return backend.Invalid(err.Error())
	}
	cfg = normalize(cfg)
	return s.verify(ctx, &cfg)
}

// Restore loads the persisted credentials of browserID into its workspace.
// Complete records are trusted without calling the backend again.
func (s *SessionService) Restore(ctx context.Context, browserID string) (*backend.ConnectionConfig, bool) {
	ws := s.Workspace(ctx, browserID)
	if ws.Connected() {
		return ws.Config(), true
	}
	return s.restore(ctx, ws)
}

func (s *SessionService) restore(ctx context.Context, ws *Workspace) (*backend.ConnectionConfig, bool) {
	cfg, err := storage.Load[backend.ConnectionConfig](ctx, s.store, ws.BrowserID(), RecordConnection)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.WithError(err).WithField("browser_id", ws.BrowserID()).Warn("failed to restore connection config")
		}
		return nil, false
	}
	if !cfg.Complete() {
		return nil, false
	}
	ws.setConfig(&cfg)
	s.publish(ctx, Connected{BrowserID: ws.BrowserID(), Username: cfg.Username})
	return cfg.Clone(), true
}

// Current returns a copy of the credentials of browserID, or nil.
func (s *SessionService) Current(browserID string) *backend.ConnectionConfig {
	ws, ok := s.lookup(browserID)
	if !ok {
		return nil
	}
	return ws.Config()
}

// Disconnect clears the in-memory and persisted credentials, stops the
// refresh task and cancels the in-flight navigation.
func (s *SessionService) Disconnect(ctx context.Context, browserID string) error {
	if ws, ok := s.lookup(browserID); ok {
		ws.reset()
	}
	if err := s.store.Delete(ctx, browserID, RecordConnection); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return errors.Wrap(err, "delete connection record")
	}
	s.publish(ctx, Disconnected{BrowserID: browserID})
	return nil
}

func (s *SessionService) publish(ctx context.Context, event any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil && !errors.Is(err, eventbus.ErrNoSubscribers) {
		s.log.WithError(err).Warnf("failed to publish %T", event)
	}
}

// Evict closes workspaces idle since before cutoff and returns how many
// were removed.
func (s *SessionService) Evict(cutoff time.Time) int {
	s.mu.Lock()
	var stale []*Workspace
	for id, ws := range s.workspaces {
		if ws.idleSince().Before(cutoff) {
			stale = append(stale, ws)
			delete(s.workspaces, id)
		}
	}
	s.mu.Unlock()
	for _, ws := range stale {
		ws.Close()
	}
	return len(stale)
}

func (s *SessionService) evictLoop(ttl time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Evict(now.Add(-ttl)); n > 0 {
				s.log.WithField("evicted", n).Debug("evicted idle workspaces")
			}
		}
	}
}

// Close ends every workspace.
func (s *SessionService) Close() {
	s.cancel()
	s.wg.Wait()
	s.mu.Lock()
	workspaces := s.workspaces
	s.workspaces = make(map[string]*Workspace)
	s.mu.Unlock()
	for _, ws := range workspaces {
		ws.Close()
	}
}
