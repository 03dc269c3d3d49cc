package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/hcm-console/pkg/backend"
	"github.com/iota-uz/hcm-console/pkg/eventbus"
	"github.com/iota-uz/hcm-console/pkg/navigation"
	"github.com/iota-uz/hcm-console/pkg/notify"
	"github.com/iota-uz/hcm-console/pkg/storage"
)

const browserID = "b-1"

type fakeBackend struct {
	srv    *httptest.Server
	calls  atomic.Int32
	status atomic.Int32
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	fb.status.Store(http.StatusOK)
	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.calls.Add(1)
		status := int(fb.status.Load())
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"detail":"Invalid credentials"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalResults":2,"Resources":[]}`))
	}))
	t.Cleanup(fb.srv.Close)
	return fb
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newService(t *testing.T, fb *fakeBackend, store storage.Store, bus *eventbus.Bus) *SessionService {
	t.Helper()
	client, err := backend.NewClient(fb.srv.URL, backend.Options{Logger: quietLogger()})
	require.NoError(t, err)
	svc := NewSessionService(client, store, bus, Options{Logger: quietLogger()})
	t.Cleanup(svc.Close)
	return svc
}

func goodConfig() backend.ConnectionConfig {
	return backend.ConnectionConfig{
		InstanceURL: "https://tenant.example.com/",
		Username:    " admin ",
		Password:    "secret",
	}
}

func TestConnect_RejectsBlankFieldsWithoutNetwork(t *testing.T) {
	fb := newFakeBackend(t)
	svc := newService(t, fb, storage.NewMemoryStore(), nil)

	for _, cfg := range []backend.ConnectionConfig{
		{Username: "a", Password: "b"},
		{InstanceURL: "https://x", Password: "b"},
		{InstanceURL: "https://x", Username: "a", Password: "   "},
	} {
		res := svc.Connect(context.Background(), browserID, cfg)
		assert.False(t, res.Success)
		assert.Equal(t, backend.KindValidation, res.Kind)
		assert.Equal(t, notify.MsgFillAllFields, res.Error)
	}
	assert.Zero(t, fb.calls.Load())
	assert.Nil(t, svc.Current(browserID))
}

func TestConnect_StoresConfig(t *testing.T) {
	fb := newFakeBackend(t)
	store := storage.NewMemoryStore()
	bus := eventbus.New(quietLogger())
	var connected []Connected
	eventbus.Subscribe(bus, func(_ context.Context, e Connected) { connected = append(connected, e) })
	svc := newService(t, fb, store, bus)

	res := svc.Connect(context.Background(), browserID, goodConfig())
	require.True(t, res.Success, res.Error)
	assert.EqualValues(t, 1, fb.calls.Load())

	want := backend.ConnectionConfig{InstanceURL: "https://tenant.example.com", Username: "admin", Password: "secret"}
	assert.Equal(t, &want, svc.Current(browserID))

	saved, err := storage.Load[backend.ConnectionConfig](context.Background(), store, browserID, RecordConnection)
	require.NoError(t, err)
	assert.Equal(t, want, saved)

	require.Len(t, connected, 1)
	assert.Equal(t, Connected{BrowserID: browserID, Username: "admin"}, connected[0])
}

func TestConnect_FailureKeepsPreviousState(t *testing.T) {
	fb := newFakeBackend(t)
	svc := newService(t, fb, storage.NewMemoryStore(), nil)
	require.True(t, svc.Connect(context.Background(), browserID, goodConfig()).Success)
	before := svc.Current(browserID)

	fb.status.Store(http.StatusUnauthorized)
	other := goodConfig()
	other.Username = "intruder"
	res := svc.Connect(context.Background(), browserID, other)

	assert.False(t, res.Success)
	assert.Equal(t, `{"detail":"Invalid credentials"}`, res.Error)
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Equal(t, before, svc.Current(browserID))
}

func TestTestConnection_NeverStores(t *testing.T) {
	fb := newFakeBackend(t)
	store := storage.NewMemoryStore()
	svc := newService(t, fb, store, nil)

	res := svc.TestConnection(context.Background(), goodConfig())
	require.True(t, res.Success)
	assert.EqualValues(t, 1, fb.calls.Load())
	assert.Nil(t, svc.Current(browserID))

	_, err := store.Get(context.Background(), browserID, RecordConnection)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRestore_TrustsStoredRecordWithoutBackendCall(t *testing.T) {
	fb := newFakeBackend(t)
	store := storage.NewMemoryStore()
	cfg := backend.ConnectionConfig{InstanceURL: "https://t", Username: "admin", Password: "p"}
	require.NoError(t, storage.Save(context.Background(), store, browserID, RecordConnection, cfg))
	svc := newService(t, fb, store, nil)

	got, ok := svc.Restore(context.Background(), browserID)
	require.True(t, ok)
	assert.Equal(t, &cfg, got)
	assert.True(t, svc.Workspace(context.Background(), browserID).Connected())
	assert.Zero(t, fb.calls.Load())
}

func TestRestore_IgnoresIncompleteRecords(t *testing.T) {
	fb := newFakeBackend(t)
	store := storage.NewMemoryStore()
	require.NoError(t, storage.Save(context.Background(), store, browserID, RecordConnection,
		backend.ConnectionConfig{InstanceURL: "https://t"}))
	svc := newService(t, fb, store, nil)

	_, ok := svc.Restore(context.Background(), browserID)
	assert.False(t, ok)
	assert.False(t, svc.Workspace(context.Background(), browserID).Connected())

	_, ok = svc.Restore(context.Background(), "nobody")
	assert.False(t, ok)
}

func TestRestore_RecordWithoutPasswordIsNotConnected(t *testing.T) {
	fb := newFakeBackend(t)
	store := storage.NewMemoryStore()
	require.NoError(t, storage.Save(context.Background(), store, browserID, RecordConnection,
		backend.ConnectionConfig{InstanceURL: "https://t", Username: "admin", Password: "  "}))
	svc := newService(t, fb, store, nil)

	cfg, ok := svc.Restore(context.Background(), browserID)
	assert.False(t, ok)
	assert.Nil(t, cfg)
	assert.False(t, svc.Workspace(context.Background(), browserID).Connected())
	assert.Nil(t, svc.Current(browserID))
	assert.Zero(t, fb.calls.Load())
}

func TestDisconnect_ClearsEverything(t *testing.T) {
	fb := newFakeBackend(t)
	store := storage.NewMemoryStore()
	svc := newService(t, fb, store, nil)
	require.True(t, svc.Connect(context.Background(), browserID, goodConfig()).Success)

	ws := svc.Workspace(context.Background(), browserID)
	ws.ScheduleRefresh(time.Hour)
	require.True(t, ws.Refresh().Scheduled())

	require.NoError(t, svc.Disconnect(context.Background(), browserID))
	assert.Nil(t, svc.Current(browserID))
	assert.False(t, ws.Connected())
	assert.False(t, ws.Refresh().Scheduled())
	_, err := store.Get(context.Background(), browserID, RecordConnection)
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, svc.Disconnect(context.Background(), "never-connected"))
}

func TestNavigate_DisconnectedWarnsOnceWithoutCalls(t *testing.T) {
	fb := newFakeBackend(t)
	svc := newService(t, fb, storage.NewMemoryStore(), nil)
	svc.RegisterLoader(navigation.Dashboard, func(ctx context.Context, ws *Workspace) (any, error) {
		return svc.Client().ListUsers(ctx, ws.Config()), nil
	})
	ws := svc.Workspace(context.Background(), browserID)

	nav, err := ws.Navigate(context.Background(), string(navigation.Dashboard))
	require.NoError(t, err)
	assert.True(t, nav.Unloaded)
	active, _ := ws.Dispatcher().Active()
	assert.Equal(t, navigation.Dashboard, active)
	require.NotNil(t, ws.View(navigation.Dashboard))

	active := ws.Notifications().Active()
	require.Len(t, active, 1)
	assert.Equal(t, notify.Warning, active[0].Severity)
	assert.Equal(t, notify.MsgConnectFirst, active[0].Message)
	assert.Zero(t, fb.calls.Load())
}

func TestNavigate_KeepsViewForTabSwitch(t *testing.T) {
	fb := newFakeBackend(t)
	svc := newService(t, fb, storage.NewMemoryStore(), nil)
	loads := 0
	svc.RegisterLoader(navigation.AORManagement, func(ctx context.Context, ws *Workspace) (any, error) {
		loads++
		return []string{"AOR-1"}, nil
	})
	require.True(t, svc.Connect(context.Background(), browserID, goodConfig()).Success)
	ws := svc.Workspace(context.Background(), browserID)

	nav, err := ws.Navigate(context.Background(), string(navigation.AORManagement))
	require.NoError(t, err)
	assert.Equal(t, []string{"AOR-1"}, nav.Data)

	require.NoError(t, ws.Dispatcher().SwitchTab(string(navigation.AORManagement), "bulk"))
	view := ws.View(navigation.AORManagement)
	require.NotNil(t, view)
	assert.Equal(t, "bulk", view.Tab)
	assert.Equal(t, []string{"AOR-1"}, view.Data)
	assert.Equal(t, 1, loads)
	assert.Nil(t, ws.View(navigation.Dashboard))
}

func TestRefresh_RunsRegisteredFunc(t *testing.T) {
	fb := newFakeBackend(t)
	svc := newService(t, fb, storage.NewMemoryStore(), nil)
	ran := make(chan string, 1)
	svc.OnRefresh(func(ctx context.Context, ws *Workspace) error {
		select {
		case ran <- ws.BrowserID():
		default:
		}
		return nil
	})
	ws := svc.Workspace(context.Background(), browserID)
	ws.ScheduleRefresh(10 * time.Millisecond)

	select {
	case id := <-ran:
		assert.Equal(t, browserID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not run")
	}
}

func TestEvict_ClosesIdleWorkspaces(t *testing.T) {
	fb := newFakeBackend(t)
	svc := newService(t, fb, storage.NewMemoryStore(), nil)
	ws := svc.Workspace(context.Background(), browserID)

	assert.Zero(t, svc.Evict(time.Now().Add(-time.Hour)))
	assert.Equal(t, 1, svc.Evict(time.Now().Add(time.Second)))
	assert.Error(t, ws.Context().Err())
	assert.NotSame(t, ws, svc.Workspace(context.Background(), browserID))
}

func TestUseWorkspace(t *testing.T) {
	_, err := UseWorkspace(context.Background())
	require.ErrorIs(t, err, ErrNoWorkspace)

	ws := newWorkspace(context.Background(), browserID, nil, func(context.Context) error { return nil }, quietLogger())
	got, err := UseWorkspace(WithWorkspace(context.Background(), ws))
	require.NoError(t, err)
	assert.Same(t, ws, got)
}
