package controllers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/gorilla/mux"

	"github.com/iota-uz/hcm-console/modules/session/presentation/shell"
	sessions "github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/pkg/application"
	"github.com/iota-uz/hcm-console/pkg/backend"
	"github.com/iota-uz/hcm-console/pkg/navigation"
)

// screenActions is embedded by every controller that answers a form of a
// screen by rendering that screen again.
type screenActions struct {
	shell *shell.Shell
}

func newScreenActions(app application.Application) screenActions {
	return screenActions{shell: app.Service(shell.Shell{}).(*shell.Shell)}
}

func (s screenActions) subrouter(r *mux.Router) *mux.Router {
	router := r.NewRoute().Subrouter()
	router.Use(s.shell.Middleware()...)
	return router
}

func (s screenActions) workspace(w http.ResponseWriter, r *http.Request) (*sessions.Workspace, bool) {
	ws, err := sessions.UseWorkspace(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return ws, true
}

// outcome notifies res and renders screen with tab selected. A nil result
// falls back to the generic rendering of res.
func (s screenActions) outcome(
	w http.ResponseWriter,
	r *http.Request,
	ws *sessions.Workspace,
	screen navigation.Screen,
	tab string,
	res backend.OperationResult,
	success string,
	result templ.Component,
	form map[string]string,
) {
	shell.Notify(ws, res, success)
	v := shell.ViewOf(ws, screen, tab)
	if result == nil {
		result = shell.Result(res)
	}
	v.Result = result
	v.Form = form
	s.shell.Render(w, r, ws, v)
}

// keepOnFailure returns values only when the form has to be filled again.
func keepOnFailure(res backend.OperationResult, values map[string]string) map[string]string {
	if res.Success {
		return nil
	}
	return values
}
