package controllers

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/iota-uz/hcm-console/components/base"
	"github.com/iota-uz/hcm-console/modules/session/presentation/shell"
	sessions "github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/modules/settings/presentation/controllers/dtos"
	"github.com/iota-uz/hcm-console/modules/settings/presentation/templates"
	"github.com/iota-uz/hcm-console/modules/settings/services"
	"github.com/iota-uz/hcm-console/pkg/application"
	"github.com/iota-uz/hcm-console/pkg/composables"
)

type SettingsController struct {
	app      application.Application
	shell    *shell.Shell
	settings *services.SettingsService
	basePath string
}

func NewSettingsController(app application.Application) application.Controller {
	return &SettingsController{
		app:      app,
		shell:    app.Service(shell.Shell{}).(*shell.Shell),
		settings: app.Service(services.SettingsService{}).(*services.SettingsService),
		basePath: "/settings",
	}
}

func (c *SettingsController) Key() string {
	return c.basePath
}

func (c *SettingsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(c.shell.Middleware()...)
	router.HandleFunc("", c.Get).Methods(http.MethodGet)
	router.HandleFunc("", c.Post).Methods(http.MethodPost)
}

func (c *SettingsController) Get(w http.ResponseWriter, r *http.Request) {
	ws, err := sessions.UseWorkspace(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	v, err := c.settings.Load(r.Context(), ws.BrowserID())
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("showing default settings")
	}
	c.shell.RenderPage(w, r, ws, "Settings.Title", templates.Settings(templates.SettingsProps{
		Values: dtos.FromSettings(v),
	}))
}

func (c *SettingsController) Post(w http.ResponseWriter, r *http.Request) {
	ws, err := sessions.UseWorkspace(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dto, err := composables.UseForm(&dtos.SettingsDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if errs, ok := dto.Ok(r.Context()); !ok {
		c.shell.RenderPage(w, r, ws, "Settings.Title", templates.Settings(templates.SettingsProps{
			Values: dto,
			Errors: errs,
		}))
		return
	}
	if _, err := c.settings.Save(r.Context(), ws.BrowserID(), dto.ToSettings()); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			composables.UseLogger(r.Context()).WithError(err).Error("failed to save settings")
			ws.Notifications().Error(err.Error())
		}
		errs, _ := dtos.Errors(r.Context(), err)
		c.shell.RenderPage(w, r, ws, "Settings.Title", templates.Settings(templates.SettingsProps{
			Values: dto,
			Errors: errs,
		}))
		return
	}
	ws.Notifications().Success(base.Translate(r.Context(), "Settings.Saved"))
	http.Redirect(w, r, c.basePath, http.StatusSeeOther)
}
