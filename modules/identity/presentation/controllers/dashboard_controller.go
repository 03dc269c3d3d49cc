package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/hcm-console/modules/identity/presentation/mappers"
	"github.com/iota-uz/hcm-console/modules/identity/services"
	sessions "github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/pkg/application"
	"github.com/iota-uz/hcm-console/pkg/composables"
	"github.com/iota-uz/hcm-console/pkg/navigation"
)

// LiveChannel is the websocket channel carrying dashboard snapshots of a
// browser.
func LiveChannel(browserID string) string {
	return "dashboard:" + browserID
}

type DashboardController struct {
	screenActions
	dashboard *services.DashboardService
	hub       *application.Hub
	basePath  string
}

func NewDashboardController(app application.Application) application.Controller {
	return &DashboardController{
		screenActions: newScreenActions(app),
		dashboard:     app.Service(services.DashboardService{}).(*services.DashboardService),
		hub:           app.Websocket(),
		basePath:      "/dashboard",
	}
}

func (c *DashboardController) Key() string {
	return c.basePath
}

func (c *DashboardController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(c.shell.Middleware()...)
	router.HandleFunc("/live", c.Live).Methods(http.MethodGet)
}

// Load is the loader of the dashboard screen.
func (c *DashboardController) Load(ctx context.Context, ws *sessions.Workspace) (any, error) {
	d, err := c.dashboard.Load(ctx, ws.BrowserID(), ws.Config())
	if err != nil {
		return nil, err
	}
	return mappers.DashboardToViewModel(d, c.basePath+"/live"), nil
}

// Refresh runs on auto-refresh ticks. While the dashboard is the active
// screen it reloads the counts and pushes them to live subscribers; the
// rendered view and the active screen are left alone.
func (c *DashboardController) Refresh(ctx context.Context, ws *sessions.Workspace) error {
	if !ws.Connected() {
		return nil
	}
	if active, _ := ws.Dispatcher().Active(); active != navigation.Dashboard {
		return nil
	}
	d, err := c.dashboard.Load(ctx, ws.BrowserID(), ws.Config())
	if err != nil {
		return err
	}
	msg, err := json.Marshal(mappers.SnapshotOf(d))
	if err != nil {
		return err
	}
	c.hub.Broadcast(LiveChannel(ws.BrowserID()), msg)
	return nil
}

func (c *DashboardController) Live(w http.ResponseWriter, r *http.Request) {
	ws, ok := c.workspace(w, r)
	if !ok {
		return
	}
	if err := c.hub.Serve(w, r, LiveChannel(ws.BrowserID()), nil); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("dashboard live upgrade failed")
	}
}
