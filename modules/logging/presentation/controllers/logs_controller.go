package controllers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/hcm-console/components/base"
	"github.com/iota-uz/hcm-console/modules/logging/presentation/mappers"
	"github.com/iota-uz/hcm-console/modules/logging/presentation/viewmodels"
	"github.com/iota-uz/hcm-console/modules/logging/services"
	"github.com/iota-uz/hcm-console/modules/session/presentation/shell"
	sessions "github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/pkg/application"
	"github.com/iota-uz/hcm-console/pkg/composables"
	"github.com/iota-uz/hcm-console/pkg/httpapi"
	"github.com/iota-uz/hcm-console/pkg/navigation"
)

type LogsController struct {
	app         application.Application
	shell       *shell.Shell
	logsService *services.LogsService
	basePath    string
}

func NewLogsController(app application.Application) application.Controller {
	return &LogsController{
		app:         app,
		shell:       app.Service(shell.Shell{}).(*shell.Shell),
		logsService: app.Service(services.LogsService{}).(*services.LogsService),
		basePath:    "/logs",
	}
}

func (c *LogsController) Key() string {
	return c.basePath
}

func (c *LogsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(c.shell.Middleware()...)
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/clear", c.Clear).Methods(http.MethodPost)
}

// Load is the loader of the logs screen.
func (c *LogsController) Load(ctx context.Context, ws *sessions.Workspace) (any, error) {
	return c.props(ctx, ws.BrowserID())
}

func (c *LogsController) props(ctx context.Context, browserID string) (*viewmodels.LogsPageProps, error) {
	logs, total, err := c.logsService.List(ctx, browserID)
	if err != nil {
		return nil, err
	}
	return &viewmodels.LogsPageProps{
		BasePath: c.basePath,
		Logs:     mappers.ActivitiesToViewModels(logs),
		Total:    total,
		Limit:    c.logsService.Limit(),
	}, nil
}

// List serves the activity log as JSON, or redirects to the logs screen.
func (c *LogsController) List(w http.ResponseWriter, r *http.Request) {
	if !httpapi.WantsJSON(r) {
		http.Redirect(w, r, "/screens/"+string(navigation.Logs), http.StatusFound)
		return
	}
	ws, err := sessions.UseWorkspace(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusInternalServerError, httpapi.CodeNoWorkspace, err.Error(), nil)
		return
	}
	props, err := c.props(r.Context(), ws.BrowserID())
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("failed to list activity logs")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, httpapi.CodeLogsUnavailable, err.Error(), nil)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, props)
}

func (c *LogsController) Clear(w http.ResponseWriter, r *http.Request) {
	ws, err := sessions.UseWorkspace(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if _, err := c.logsService.Clear(r.Context(), ws.BrowserID()); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("failed to clear activity logs")
		ws.Notifications().Error(err.Error())
	} else {
		ws.Notifications().Info(base.Translate(r.Context(), "Logs.Cleared"))
	}
	http.Redirect(w, r, "/screens/"+string(navigation.Logs), http.StatusSeeOther)
}
