package controllers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/gorilla/mux"

	"github.com/iota-uz/hcm-console/modules/identity/presentation/controllers/dtos"
	"github.com/iota-uz/hcm-console/modules/identity/presentation/mappers"
	"github.com/iota-uz/hcm-console/modules/identity/presentation/templates"
	"github.com/iota-uz/hcm-console/modules/identity/services"
	"github.com/iota-uz/hcm-console/pkg/application"
	"github.com/iota-uz/hcm-console/pkg/composables"
	"github.com/iota-uz/hcm-console/pkg/navigation"
)

type SearchController struct {
	screenActions
	users  *services.UsersService
	access *services.AccessService
}

func NewSearchController(app application.Application) application.Controller {
	return &SearchController{
		screenActions: newScreenActions(app),
		users:         app.Service(services.UsersService{}).(*services.UsersService),
		access:        app.Service(services.AccessService{}).(*services.AccessService),
	}
}

func (c *SearchController) Key() string {
	return "/search"
}

func (c *SearchController) Register(r *mux.Router) {
	router := r.PathPrefix("/search").Subrouter()
	router.Use(c.shell.Middleware()...)
	router.HandleFunc("/users", c.Users).Methods(http.MethodPost)
	router.HandleFunc("/aors", c.AORs).Methods(http.MethodPost)
}

func (c *SearchController) Users(w http.ResponseWriter, r *http.Request) {
	ws, ok := c.workspace(w, r)
	if !ok {
		return
	}
	dto, err := composables.UseForm(&dtos.UserSearchDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	users, res := c.users.Search(r.Context(), dto.ToCriteria(), ws.Config())
	var result templ.Component
	if res.Success {
		result = templates.UserSearchResult(mappers.UsersToViewModels(users))
	}
	c.outcome(w, r, ws, navigation.Search, "users", res, "", result, dto.Values())
}

func (c *SearchController) AORs(w http.ResponseWriter, r *http.Request) {
	ws, ok := c.workspace(w, r)
	if !ok {
		return
	}
	dto, err := composables.UseForm(&dtos.AORSearchDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	items, res := c.access.SearchAORs(r.Context(), dto.ToCriteria(), ws.Config())
	var result templ.Component
	if res.Success {
		result = templates.AORSearchResult(mappers.AORsToViewModels(items))
	}
	c.outcome(w, r, ws, navigation.Search, "aors", res, "", result, dto.Values())
}
