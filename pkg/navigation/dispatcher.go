// Package navigation tracks the active screen of a workspace and runs each
// screen's load action once per navigation.
package navigation

import (
	"context"
	"sync"

	"github.com/go-faster/errors"

	"github.com/iota-uz/hcm-console/pkg/backend"
	"github.com/iota-uz/hcm-console/pkg/notify"
)

// ErrStale is returned for results of a navigation that was superseded
// before its load action finished.
var ErrStale = errors.New("navigation superseded")

// Loader fetches the data a screen renders. It runs with the navigation's
// token context.
type Loader func(ctx context.Context) (any, error)

type Notifier interface {
	Warning(message string) notify.Notification
}

type Options struct {
	Loaders   map[Screen]Loader
	Connected func() bool
	Notifier  Notifier
}

// Token identifies one navigation. Its context is cancelled as soon as
// another navigation starts.
type Token struct {
	id     uint64
	screen Screen
	ctx    context.Context
	cancel context.CancelFunc
}

func (t *Token) Context() context.Context { return t.ctx }
func (t *Token) Screen() Screen           { return t.screen }
func (t *Token) ID() uint64               { return t.id }

type Navigation struct {
	Token  *Token
	Screen Definition
	Tab    string
	Data   any
	// Err is the load error, if any.
	Err error
	// Unloaded is set when a session screen was shown without a session
	// and its loader was skipped.
	Unloaded bool
}

type Dispatcher struct {
	mu      sync.Mutex
	seq     uint64
	active  Screen
	tabs    map[Screen]string
	current *Token

	loaders   map[Screen]Loader
	connected func() bool
	notifier  Notifier
}

func New(opts Options) *Dispatcher {
	connected := opts.Connected
	if connected == nil {
		connected = func() bool { return false }
	}
	loaders := make(map[Screen]Loader, len(opts.Loaders))
	for k, v := range opts.Loaders {
		loaders[k] = v
	}
	return &Dispatcher{
		active:    Dashboard,
		tabs:      make(map[Screen]string),
		loaders:   loaders,
		connected: connected,
		notifier:  opts.Notifier,
	}
}

// Navigate makes screen active, cancels the previous navigation and runs
// the screen's loader exactly once. Any screen can be reached at any time;
// a session screen shown while disconnected gets a single warning and its
// loader does not run.
func (d *Dispatcher) Navigate(ctx context.Context, name string) (*Navigation, error) {
	def, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	skip := def.RequiresSession && !d.connected()

	d.mu.Lock()
	if d.current != nil {
		d.current.cancel()
	}
	d.seq++
	tctx, cancel := context.WithCancel(ctx)
	tok := &Token{id: d.seq, screen: def.Screen, ctx: tctx, cancel: cancel}
	d.current = tok
	d.active = def.Screen
	tab := d.tabLocked(def)
	load := d.loaders[def.Screen]
	d.mu.Unlock()

	nav := &Navigation{Token: tok, Screen: def, Tab: tab}
	if skip {
		if d.notifier != nil {
			d.notifier.Warning(backend.NotConnectedMessage)
		}
		nav.Unloaded = true
		return nav, nil
	}
	if load != nil {
		data, err := load(tctx)
		if !d.IsCurrent(tok) {
			return nil, ErrStale
		}
		if err != nil {
			nav.Err = err
			return nav, err
		}
		nav.Data = data
	}
	if !d.IsCurrent(tok) {
		return nil, ErrStale
	}
	return nav, nil
}

// SwitchTab only changes which tab of screen is shown; nothing is loaded.
func (d *Dispatcher) SwitchTab(name, tab string) error {
	def, err := Lookup(name)
	if err != nil {
		return err
	}
	if !def.HasTab(tab) {
		return errors.Wrapf(ErrUnknownTab, "%s/%s", name, tab)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tabs[def.Screen] = tab
	return nil
}

// Deliver runs apply only if tok still belongs to the latest navigation.
func (d *Dispatcher) Deliver(tok *Token, apply func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if tok == nil || d.current != tok || tok.ctx.Err() != nil {
		return ErrStale
	}
	apply()
	return nil
}

func (d *Dispatcher) IsCurrent(tok *Token) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return tok != nil && d.current == tok && tok.ctx.Err() == nil
}

// Active returns the active screen and its selected tab.
func (d *Dispatcher) Active() (Screen, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	def, _ := Lookup(string(d.active))
	return d.active, d.tabLocked(def)
}

func (d *Dispatcher) Tab(screen Screen) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	def, err := Lookup(string(screen))
	if err != nil {
		return ""
	}
	return d.tabLocked(def)
}

// Cancel aborts the in-flight navigation, if any.
func (d *Dispatcher) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current != nil {
		d.current.cancel()
		d.current = nil
	}
}

func (d *Dispatcher) tabLocked(def Definition) string {
	if tab, ok := d.tabs[def.Screen]; ok {
		return tab
	}
	return def.DefaultTab()
}
