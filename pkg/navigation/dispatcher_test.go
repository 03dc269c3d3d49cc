package navigation

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/hcm-console/pkg/backend"
	"github.com/iota-uz/hcm-console/pkg/notify"
)

type countingLoaders struct {
	mu    sync.Mutex
	calls map[Screen]int
}

func (c *countingLoaders) loaders() map[Screen]Loader {
	out := map[Screen]Loader{}
	for _, d := range Definitions() {
		screen := d.Screen
		out[screen] = func(ctx context.Context) (any, error) {
			c.mu.Lock()
			defer c.mu.Unlock()
			if c.calls == nil {
				c.calls = map[Screen]int{}
			}
			c.calls[screen]++
			return string(screen), nil
		}
	}
	return out
}

func (c *countingLoaders) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}

func TestNavigate_DisconnectedSessionScreens(t *testing.T) {
	t.Parallel()

	for _, def := range Definitions() {
		if !def.RequiresSession {
			continue
		}
		t.Run(string(def.Screen), func(t *testing.T) {
			t.Parallel()
			counter := &countingLoaders{}
			center := notify.NewCenter()
			d := New(Options{Loaders: counter.loaders(), Notifier: center})

			nav, err := d.Navigate(context.Background(), string(def.Screen))
			require.NoError(t, err)
			require.NotNil(t, nav)
			assert.True(t, nav.Unloaded)
			assert.Nil(t, nav.Data)
			assert.Equal(t, def.Screen, nav.Screen.Screen)
			assert.Equal(t, 0, counter.total())

			screen, _ := d.Active()
			assert.Equal(t, def.Screen, screen)

			active := center.Active()
			require.Len(t, active, 1)
			assert.Equal(t, notify.Warning, active[0].Severity)
			assert.Equal(t, backend.NotConnectedMessage, active[0].Message)
		})
	}
}

func TestNavigate_AnyScreenReachableWithoutSession(t *testing.T) {
	t.Parallel()

	counter := &countingLoaders{}
	center := notify.NewCenter()
	d := New(Options{Loaders: counter.loaders(), Notifier: center})

	nav, err := d.Navigate(context.Background(), "logs")
	require.NoError(t, err)
	assert.Equal(t, "logs", nav.Data)

	nav, err = d.Navigate(context.Background(), "role-management")
	require.NoError(t, err)
	assert.True(t, nav.Unloaded)
	screen, tab := d.Active()
	assert.Equal(t, RoleManagement, screen)
	assert.Equal(t, "assign", tab)
	assert.Equal(t, 1, counter.total())
	assert.Len(t, center.Active(), 1)
}

func TestNavigate_LogsWithoutSession(t *testing.T) {
	t.Parallel()

	counter := &countingLoaders{}
	center := notify.NewCenter()
	d := New(Options{Loaders: counter.loaders(), Notifier: center})

	nav, err := d.Navigate(context.Background(), "logs")
	require.NoError(t, err)
	assert.Equal(t, "logs", nav.Data)
	assert.Empty(t, center.Active())
}

func TestNavigate_RunsLoaderOncePerNavigation(t *testing.T) {
	t.Parallel()

	counter := &countingLoaders{}
	d := New(Options{Loaders: counter.loaders(), Connected: func() bool { return true }})

	for i := 0; i < 3; i++ {
		_, err := d.Navigate(context.Background(), "dashboard")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, counter.calls[Dashboard])

	screen, _ := d.Active()
	assert.Equal(t, Dashboard, screen)
}

func TestNavigate_UnknownScreen(t *testing.T) {
	t.Parallel()

	d := New(Options{Connected: func() bool { return true }})
	_, err := d.Navigate(context.Background(), "payroll")
	require.ErrorIs(t, err, ErrUnknownScreen)
}

func TestNavigate_SupersededResultIsStale(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	var cancelled atomic.Bool
	d := New(Options{
		Connected: func() bool { return true },
		Loaders: map[Screen]Loader{
			Dashboard: func(ctx context.Context) (any, error) {
				close(started)
				select {
				case <-ctx.Done():
					cancelled.Store(true)
				case <-time.After(5 * time.Second):
				}
				return "late", nil
			},
		},
	})

	type outcome struct {
		nav *Navigation
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		nav, err := d.Navigate(context.Background(), "dashboard")
		done <- outcome{nav, err}
	}()

	<-started
	nav, err := d.Navigate(context.Background(), "search")
	require.NoError(t, err)
	assert.Equal(t, Search, nav.Token.Screen())

	first := <-done
	require.ErrorIs(t, first.err, ErrStale)
	assert.Nil(t, first.nav)
	assert.True(t, cancelled.Load())

	screen, tab := d.Active()
	assert.Equal(t, Search, screen)
	assert.Equal(t, "users", tab)
}

func TestDeliver(t *testing.T) {
	t.Parallel()

	d := New(Options{Connected: func() bool { return true }})
	first, err := d.Navigate(context.Background(), "upload")
	require.NoError(t, err)

	applied := false
	require.NoError(t, d.Deliver(first.Token, func() { applied = true }))
	assert.True(t, applied)

	_, err = d.Navigate(context.Background(), "logs")
	require.NoError(t, err)
	require.ErrorIs(t, d.Deliver(first.Token, func() { t.Fatal("stale result applied") }), ErrStale)

	d.Cancel()
	assert.False(t, d.IsCurrent(first.Token))
}

func TestSwitchTab(t *testing.T) {
	t.Parallel()

	counter := &countingLoaders{}
	d := New(Options{Loaders: counter.loaders(), Connected: func() bool { return true }})

	assert.Equal(t, "assign", d.Tab(RoleManagement))
	require.NoError(t, d.SwitchTab("role-management", "bulk"))
	assert.Equal(t, "bulk", d.Tab(RoleManagement))
	assert.Equal(t, 0, counter.total())

	require.ErrorIs(t, d.SwitchTab("role-management", "password-reset"), ErrUnknownTab)
	require.ErrorIs(t, d.SwitchTab("payroll", "x"), ErrUnknownScreen)

	nav, err := d.Navigate(context.Background(), "role-management")
	require.NoError(t, err)
	assert.Equal(t, "bulk", nav.Tab)
}

func TestDefinitions_Exhaustive(t *testing.T) {
	t.Parallel()

	names := make([]Screen, 0)
	for _, d := range Definitions() {
		names = append(names, d.Screen)
	}
	assert.Equal(t, []Screen{
		Dashboard, UserDetails, RoleManagement, SecurityManagement,
		AORManagement, Upload, Search, Logs,
	}, names)
}
