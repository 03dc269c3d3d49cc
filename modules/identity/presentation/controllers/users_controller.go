package controllers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
	"github.com/gorilla/mux"

	"github.com/iota-uz/hcm-console/components/base"
	"github.com/iota-uz/hcm-console/modules/identity/presentation/controllers/dtos"
	"github.com/iota-uz/hcm-console/modules/identity/presentation/mappers"
	"github.com/iota-uz/hcm-console/modules/identity/presentation/templates"
	"github.com/iota-uz/hcm-console/modules/identity/services"
	"github.com/iota-uz/hcm-console/modules/session/presentation/shell"
	"github.com/iota-uz/hcm-console/pkg/application"
	"github.com/iota-uz/hcm-console/pkg/composables"
	"github.com/iota-uz/hcm-console/pkg/httpapi"
	"github.com/iota-uz/hcm-console/pkg/navigation"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type UsersController struct {
	screenActions
	users *services.UsersService
}

func NewUsersController(app application.Application) application.Controller {
	return &UsersController{
		screenActions: newScreenActions(app),
		users:         app.Service(services.UsersService{}).(*services.UsersService),
	}
}

func (c *UsersController) Key() string {
	return "/users"
}

func (c *UsersController) Register(r *mux.Router) {
	router := c.subrouter(r)
	router.HandleFunc("/users/details", c.Details).Methods(http.MethodPost)
	router.HandleFunc("/users/export.xlsx", c.Export).Methods(http.MethodGet)
	router.HandleFunc("/password/reset", c.ResetPassword).Methods(http.MethodPost)
	router.HandleFunc("/password/update", c.UpdatePassword).Methods(http.MethodPost)
}

func (c *UsersController) Details(w http.ResponseWriter, r *http.Request) {
	ws, ok := c.workspace(w, r)
	if !ok {
		return
	}
	dto, err := composables.UseForm(&dtos.UsernameDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	details, res := c.users.Details(r.Context(), dto.Username, ws.Config())
	var result templ.Component
	if res.Success {
		result = templates.UserDetailsCard(mappers.UserDetailsToViewModel(details))
	}
	c.outcome(w, r, ws, navigation.UserDetails, "lookup", res, "", result, dto.Values())
}

// Export downloads every user as a workbook. Failures go back to the page
// the export was started from, or come back as an error envelope to JSON
// clients.
func (c *UsersController) Export(w http.ResponseWriter, r *http.Request) {
	ws, ok := c.workspace(w, r)
	if !ok {
		return
	}
	data, res := c.users.Export(r.Context(), ws.Config())
	if !res.Success && httpapi.WantsJSON(r) {
		_ = httpapi.WriteResult(w, res)
		return
	}
	if !res.Success {
		shell.Notify(ws, res, "")
		target := "/screens/" + string(navigation.UserDetails)
		if ref, err := url.Parse(r.Referer()); err == nil && ref.Path != "" {
			target = ref.RequestURI()
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+services.ExportFileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("failed to write users export")
	}
}

func (c *UsersController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ws, ok := c.workspace(w, r)
	if !ok {
		return
	}
	dto, err := composables.UseForm(&dtos.PasswordResetDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res := c.users.ResetPassword(r.Context(), dto.ToReset(), ws.Config())
	c.outcome(w, r, ws, navigation.UserDetails, "password-reset", res,
		base.Translate(r.Context(), "Identity.Flash.PasswordReset"), nil, keepOnFailure(res, dto.Values()))
}

func (c *UsersController) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	ws, ok := c.workspace(w, r)
	if !ok {
		return
	}
	dto, err := composables.UseForm(&dtos.PasswordUpdateDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res := c.users.UpdatePassword(r.Context(), dto.ToUpdate(), ws.Config())
	c.outcome(w, r, ws, navigation.UserDetails, "password-update", res,
		base.Translate(r.Context(), "Identity.Flash.PasswordUpdated"), nil, keepOnFailure(res, dto.Values()))
}
