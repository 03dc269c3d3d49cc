package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/gorilla/mux"

	"github.com/iota-uz/hcm-console/components/base"
	"github.com/iota-uz/hcm-console/modules/identity/presentation/controllers/dtos"
	"github.com/iota-uz/hcm-console/modules/identity/presentation/mappers"
	"github.com/iota-uz/hcm-console/modules/identity/presentation/templates"
	"github.com/iota-uz/hcm-console/modules/identity/services"
	sessions "github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/pkg/application"
	"github.com/iota-uz/hcm-console/pkg/backend"
	"github.com/iota-uz/hcm-console/pkg/composables"
	"github.com/iota-uz/hcm-console/pkg/navigation"
)

// AccessController serves the role, data security and AOR screens.
type AccessController struct {
	screenActions
	access *services.AccessService
}

func NewAccessController(app application.Application) application.Controller {
	return &AccessController{
		screenActions: newScreenActions(app),
		access:        app.Service(services.AccessService{}).(*services.AccessService),
	}
}

func (c *AccessController) Key() string {
	return "/access"
}

func (c *AccessController) Register(r *mux.Router) {
	router := c.subrouter(r)
	router.HandleFunc("/roles/assign", c.AssignRole).Methods(http.MethodPost)
	router.HandleFunc("/roles/remove", c.RemoveRole).Methods(http.MethodPost)
	router.HandleFunc("/roles/bulk-assign", c.BulkAssignRoles).Methods(http.MethodPost)
	router.HandleFunc("/security/assign", c.AssignDataSecurity).Methods(http.MethodPost)
	router.HandleFunc("/security/bulk-assign", c.BulkAssignDataSecurity).Methods(http.MethodPost)
	router.HandleFunc("/aor/assign", c.AssignAOR).Methods(http.MethodPost)
	router.HandleFunc("/aor/remove", c.RemoveAOR).Methods(http.MethodPost)
	router.HandleFunc("/aor/bulk-assign", c.BulkAssignAORs).Methods(http.MethodPost)
}

// LoadAORs is the loader of the AOR screen.
func (c *AccessController) LoadAORs(ctx context.Context, ws *sessions.Workspace) (any, error) {
	items, res := c.access.ListAORs(ctx, ws.Config())
	if err := res.Err(); err != nil {
		return nil, err
	}
	return mappers.AORsToViewModels(items), nil
}

// bulkOutcome reports the backend's counts as the success message and the
// lines skipped before sending as an info notification.
func (c *AccessController) bulkOutcome(w http.ResponseWriter, r *http.Request, ws *sessions.Workspace, screen navigation.Screen, out *backend.BulkOperationResponse, res backend.OperationResult, values map[string]string) {
	var result templ.Component
	if res.Success && out != nil {
		if n := len(out.SkippedLines); n > 0 {
			ws.Notifications().Info(base.Translate(r.Context(), "Identity.Flash.BulkSkipped", map[string]interface{}{
				"Count": n,
				"Lines": strings.Join(out.SkippedLines, "; "),
			}))
		}
		res.Message = base.Translate(r.Context(), "Identity.Flash.BulkCompleted", map[string]interface{}{
			"Successful": out.SuccessfulOperations,
			"Failed":     out.FailedOperations,
		})
		result = templates.BulkResult(mappers.BulkToViewModel(out))
	}
	c.outcome(w, r, ws, screen, "bulk", res, "", result, keepOnFailure(res, values))
}

func (c *AccessController) AssignRole(w http.ResponseWriter, r *http.Request) {
	ws, ok := c.workspace(w, r)
	if !ok {
		return
	}
	dto, err := composables.UseForm(&dtos.RoleDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res := c.access.AssignRole(r.Context(), dto.ToAssignment(), ws.Config())
	c.outcome(w, r, ws, navigation.RoleManagement, "assign", res,
		base.Translate(r.Context(), "Identity.Flash.RoleAssigned"), nil, keepOnFailure(res, dto.Values()))
}

func (c *AccessController) RemoveRole(w http.ResponseWriter, r *http.Request) {
	ws, ok := c.workspace(w, r)
	if !ok {
		return
	}
	dto, err := composables.UseForm(&dtos.RoleDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res := c.access.RemoveRole(r.Context(), dto.ToAssignment(), ws.Config())
	c.outcome(w, r, ws, navigation.RoleManagement, "remove", res,
		base.Translate(r.Context(), "Identity.Flash.RoleRemoved"), nil, keepOnFailure(res, dto.Values()))
}

func (c *AccessController) BulkAssignRoles(w http.ResponseWriter, r *http.Request) {
	ws, ok := c.workspace(w, r)
	if !ok {
		return
	}
	dto, err := composables.UseForm(&dtos.BulkDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	out, res := c.access.BulkAssignRoles(r.Context(), dto.Data, ws.Config())
	c.bulkOutcome(w, r, ws, navigation.RoleManagement, out, res, dto.Values())
}

func (c *AccessController) AssignDataSecurity(w http.ResponseWriter, r *http.Request) {
	ws, ok := c.workspace(w, r)
	if !ok {
		return
	}
	dto, err := composables.UseForm(&dtos.SecurityDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res := c.access.AssignDataSecurity(r.Context(), dto.ToAssignment(), ws.Config())
	c.outcome(w, r, ws, navigation.SecurityManagement, "assign", res,
		base.Translate(r.Context(), "Identity.Flash.SecurityAssigned"), nil, keepOnFailure(res, dto.Values()))
}

func (c *AccessController) BulkAssignDataSecurity(w http.ResponseWriter, r *http.Request) {
	ws, ok := c.workspace(w, r)
	if !ok {
		return
	}
	dto, err := composables.UseForm(&dtos.BulkDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	out, res := c.access.BulkAssignDataSecurity(r.Context(), dto.Data, ws.Config())
	c.bulkOutcome(w, r, ws, navigation.SecurityManagement, out, res, dto.Values())
}

func (c *AccessController) AssignAOR(w http.ResponseWriter, r *http.Request) {
	ws, ok := c.workspace(w, r)
	if !ok {
		return
	}
	dto, err := composables.UseForm(&dtos.AORAssignDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res := c.access.AssignAOR(r.Context(), dto.ToAssignment(), ws.Config())
	c.outcome(w, r, ws, navigation.AORManagement, "assign", res,
		base.Translate(r.Context(), "Identity.Flash.AORAssigned"), nil, keepOnFailure(res, dto.Values()))
}

func (c *AccessController) RemoveAOR(w http.ResponseWriter, r *http.Request) {
	ws, ok := c.workspace(w, r)
	if !ok {
		return
	}
	dto, err := composables.UseForm(&dtos.AORRemoveDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res := c.access.RemoveAOR(r.Context(), dto.ToRemoval(), ws.Config())
	c.outcome(w, r, ws, navigation.AORManagement, "remove", res,
		base.Translate(r.Context(), "Identity.Flash.AORRemoved"), nil, keepOnFailure(res, dto.Values()))
}

func (c *AccessController) BulkAssignAORs(w http.ResponseWriter, r *http.Request) {
	ws, ok := c.workspace(w, r)
	if !ok {
		return
	}
	dto, err := composables.UseForm(&dtos.BulkDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	out, res := c.access.BulkAssignAORs(r.Context(), dto.Data, ws.Config())
	c.bulkOutcome(w, r, ws, navigation.AORManagement, out, res, dto.Values())
}
