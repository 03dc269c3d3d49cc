package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hcm-console/pkg/backend"
	"github.com/iota-uz/hcm-console/pkg/constants"
	"github.com/iota-uz/hcm-console/pkg/navigation"
	"github.com/iota-uz/hcm-console/pkg/notify"
	"github.com/iota-uz/hcm-console/pkg/refresh"
)

// Workspace is the session context of one browser: its credentials, the
// active screen, pending notifications and the auto-refresh task. Everything
// started for the workspace ends when it is closed.
type Workspace struct {
	browserID string
	ctx       context.Context
	cancel    context.CancelFunc

	notifications *notify.Center
	dispatcher    *navigation.Dispatcher
	refresh       *refresh.Task

	mu       sync.RWMutex
	config   *backend.ConnectionConfig
	view     *navigation.Navigation
	lastSeen time.Time
}

func (w *Workspace) BrowserID() string {
	return w.browserID
}

// Context is cancelled when the workspace closes.
func (w *Workspace) Context() context.Context {
	return w.ctx
}

// Config returns a copy of the current credentials, or nil.
func (w *Workspace) Config() *backend.ConnectionConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config.Clone()
}

// Connected reports whether complete credentials are held. Restored configs
// count as connected without another backend call.
func (w *Workspace) Connected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config.Complete()
}

func (w *Workspace) Notifications() *notify.Center {
	return w.notifications
}

func (w *Workspace) Dispatcher() *navigation.Dispatcher {
	return w.dispatcher
}

func (w *Workspace) Refresh() *refresh.Task {
	return w.refresh
}

// ScheduleRefresh restarts the auto-refresh task with interval. Zero stops it.
func (w *Workspace) ScheduleRefresh(interval time.Duration) {
	w.refresh.Schedule(w.ctx, interval)
}

// Navigate runs a navigation and keeps its result as the rendered view
// unless a newer navigation won the race.
func (w *Workspace) Navigate(ctx context.Context, screen string) (*navigation.Navigation, error) {
	nav, err := w.dispatcher.Navigate(ctx, screen)
	if nav == nil {
		return nil, err
	}
	if derr := w.dispatcher.Deliver(nav.Token, func() {
		w.mu.Lock()
		w.view = nav
		w.mu.Unlock()
	}); derr != nil {
		return nil, derr
	}
	return nav, err
}

// View returns the last delivered navigation of screen with tab applied.
// Switching tabs never reloads.
func (w *Workspace) View(screen navigation.Screen) *navigation.Navigation {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.view == nil || w.view.Screen.Screen != screen {
		return nil
	}
	cp := *w.view
	cp.Tab = w.dispatcher.Tab(screen)
	return &cp
}

func (w *Workspace) setConfig(cfg *backend.ConnectionConfig) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.config = cfg.Clone()
}

func (w *Workspace) reset() {
	w.mu.Lock()
	w.config = nil
	w.view = nil
	w.mu.Unlock()
	w.refresh.Stop()
	w.dispatcher.Cancel()
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastSeen
}

// Close stops the refresh task and cancels every navigation.
func (w *Workspace) Close() {
	w.cancel()
	w.refresh.Stop()
	w.dispatcher.Cancel()
}

func WithWorkspace(ctx context.Context, ws *Workspace) context.Context {
	return context.WithValue(ctx, constants.WorkspaceKey, ws)
}

func UseWorkspace(ctx context.Context) (*Workspace, error) {
	ws, ok := ctx.Value(constants.WorkspaceKey).(*Workspace)
	if !ok || ws == nil {
		return nil, ErrNoWorkspace
	}
	return ws, nil
}

func newWorkspace(parent context.Context, browserID string, loaders map[navigation.Screen]navigation.Loader, refreshFn refresh.Func, log logrus.FieldLogger) *Workspace {
	ctx, cancel := context.WithCancel(parent)
	ws := &Workspace{
		browserID:     browserID,
		ctx:           ctx,
		cancel:        cancel,
		notifications: notify.NewCenter(),
		lastSeen:      time.Now(),
	}
	ws.dispatcher = navigation.New(navigation.Options{
		Loaders:   loaders,
		Connected: ws.Connected,
		Notifier:  ws.notifications,
	})
	ws.refresh = refresh.New(refreshFn, log.WithField("browser_id", browserID))
	return ws
}
