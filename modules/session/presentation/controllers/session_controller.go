package controllers

import (
	"net/http"
	"net/url"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/iota-uz/hcm-console/components/base"
	"github.com/iota-uz/hcm-console/modules/session/presentation/controllers/dtos"
	"github.com/iota-uz/hcm-console/modules/session/presentation/shell"
	"github.com/iota-uz/hcm-console/modules/session/presentation/templates"
	"github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/pkg/application"
	"github.com/iota-uz/hcm-console/pkg/composables"
	"github.com/iota-uz/hcm-console/pkg/navigation"
)

type SessionController struct {
	app      application.Application
	shell    *shell.Shell
	sessions *services.SessionService
}

func NewSessionController(app application.Application) application.Controller {
	sh := app.Service(shell.Shell{}).(*shell.Shell)
	return &SessionController{
		app:      app,
		shell:    sh,
		sessions: sh.Sessions(),
	}
}

func (c *SessionController) Key() string {
	return "/session"
}

func (c *SessionController) Register(r *mux.Router) {
	router := r.NewRoute().Subrouter()
	router.Use(c.shell.Middleware()...)
	router.HandleFunc("/", c.Home).Methods(http.MethodGet)
	router.HandleFunc("/help", c.Help).Methods(http.MethodGet)
	router.HandleFunc("/screens/{screen}", c.Screen).Methods(http.MethodGet)
	router.HandleFunc("/session/connect", c.Connect).Methods(http.MethodPost)
	router.HandleFunc("/session/test", c.Test).Methods(http.MethodPost)
	router.HandleFunc("/session/disconnect", c.Disconnect).Methods(http.MethodPost)
	router.HandleFunc("/notifications/dismiss", c.Dismiss).Methods(http.MethodPost)
}

func workspace(w http.ResponseWriter, r *http.Request) (*services.Workspace, bool) {
	ws, err := services.UseWorkspace(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return ws, true
}

// Home shows the connection screen, or the active screen once connected.
func (c *SessionController) Home(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	if ws.Connected() {
		active, _ := ws.Dispatcher().Active()
		http.Redirect(w, r, "/screens/"+string(active), http.StatusFound)
		return
	}
	c.shell.RenderPage(w, r, ws, "Session.Connect.Title", templates.Connect(nil))
}

func (c *SessionController) Help(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	c.shell.RenderPage(w, r, ws, "Help.Title", templates.Help())
}

// Screen navigates to a screen. A tab change on the active screen only
// switches the tab and reuses the loaded data.
func (c *SessionController) Screen(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	name := mux.Vars(r)["screen"]
	def, err := navigation.Lookup(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	tab := r.URL.Query().Get("tab")
	active, _ := ws.Dispatcher().Active()
	if tab != "" && active == def.Screen && ws.View(def.Screen) != nil {
		c.shell.Render(w, r, ws, shell.ViewOf(ws, def.Screen, tab))
		return
	}

	_, err = ws.Navigate(r.Context(), name)
	switch {
	case errors.Is(err, navigation.ErrStale):
		// a newer navigation of the same browser won
		current, _ := ws.Dispatcher().Active()
		http.Redirect(w, r, "/screens/"+string(current), http.StatusFound)
		return
	case err != nil:
		composables.UseLogger(r.Context()).WithError(err).WithField("screen", name).Warn("screen load failed")
		ws.Notifications().Error(err.Error())
	}
	c.shell.Render(w, r, ws, shell.ViewOf(ws, def.Screen, tab))
}

func (c *SessionController) Connect(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	dto, err := composables.UseForm(&dtos.ConnectDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res := c.sessions.Connect(r.Context(), ws.BrowserID(), dto.ToConfig())
	shell.Notify(ws, res, base.Translate(r.Context(), "Session.Flash.Connected"))
	if res.Success {
		http.Redirect(w, r, "/screens/"+string(navigation.Dashboard), http.StatusSeeOther)
		return
	}
	c.shell.RenderPage(w, r, ws, "Session.Connect.Title", templates.Connect(dto))
}

func (c *SessionController) Test(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	dto, err := composables.UseForm(&dtos.ConnectDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res := c.sessions.TestConnection(r.Context(), dto.ToConfig())
	shell.Notify(ws, res, base.Translate(r.Context(), "Session.Flash.TestSucceeded"))
	c.shell.RenderPage(w, r, ws, "Session.Connect.Title", templates.Connect(dto))
}

func (c *SessionController) Disconnect(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	if err := c.sessions.Disconnect(r.Context(), ws.BrowserID()); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("disconnect failed")
		ws.Notifications().Error(err.Error())
	} else {
		ws.Notifications().Info(base.Translate(r.Context(), "Session.Flash.Disconnected"))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (c *SessionController) Dismiss(w http.ResponseWriter, r *http.Request) {
	ws, ok := workspace(w, r)
	if !ok {
		return
	}
	dto, err := composables.UseForm(&dtos.DismissDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ws.Notifications().Dismiss(dto.ID)
	target := "/"
	if ref, err := url.Parse(r.Referer()); err == nil && ref.Path != "" {
		target = ref.RequestURI()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
