package mappers

import (
	"time"

	"github.com/iota-uz/hcm-console/modules/identity/presentation/viewmodels"
	"github.com/iota-uz/hcm-console/modules/identity/services"
	logmappers "github.com/iota-uz/hcm-console/modules/logging/presentation/mappers"
	"github.com/iota-uz/hcm-console/pkg/backend"
	"github.com/iota-uz/hcm-console/pkg/bulk"
)

func DashboardToViewModel(d *services.Dashboard, livePath string) *viewmodels.Dashboard {
	if d == nil {
		return nil
	}
	vm := &viewmodels.Dashboard{
		Recent:    logmappers.ActivitiesToViewModels(d.Recent),
		LivePath:  livePath,
		UpdatedAt: d.At.Format(time.TimeOnly),
	}
	if d.RecentErr != nil {
		vm.RecentErr = d.RecentErr.Error()
	}
	for _, t := range d.Tiles {
		vm.Tiles = append(vm.Tiles, viewmodels.Tile{
			Key:    t.Key,
			Label:  "Identity.Dashboard.Tiles." + t.Key,
			Value:  t.Value,
			Failed: t.State == services.TileFailed,
		})
	}
	return vm
}

func SnapshotOf(d *services.Dashboard) viewmodels.LiveSnapshot {
	return viewmodels.LiveSnapshot{Tiles: d.Values(), At: d.At.Format(time.RFC3339)}
}

func UserToViewModel(u backend.ScimUser) viewmodels.User {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.Label())
	}
	return viewmodels.User{
		Username:    u.UserName,
		DisplayName: u.DisplayName,
		Email:       u.PrimaryEmail(),
		Active:      u.Active,
		Roles:       roles,
	}
}

func UsersToViewModels(users []backend.ScimUser) []viewmodels.User {
	out := make([]viewmodels.User, 0, len(users))
	for _, u := range users {
		out = append(out, UserToViewModel(u))
	}
	return out
}

func AORToViewModel(a backend.AOR) viewmodels.AOR {
	return viewmodels.AOR{ID: string(a.ID), Name: a.Label(), Type: a.TypeLabel()}
}

func AORsToViewModels(items []backend.AOR) []viewmodels.AOR {
	out := make([]viewmodels.AOR, 0, len(items))
	for _, a := range items {
		out = append(out, AORToViewModel(a))
	}
	return out
}

func UserDetailsToViewModel(d *backend.UserDetails) *viewmodels.UserDetails {
	if d == nil {
		return nil
	}
	vm := &viewmodels.UserDetails{
		Username:     d.Username,
		PersonNumber: d.PersonNumber,
		DisplayName:  d.DisplayName,
		Email:        d.Email,
		Active:       d.IsActive,
		AORs:         AORsToViewModels(d.AreasOfResponsibility),
	}
	for _, r := range d.AssignedRoles {
		vm.Roles = append(vm.Roles, viewmodels.Role{Name: r.Label(), Description: r.Description})
	}
	for _, s := range d.DataSecurityContexts {
		vm.SecurityContexts = append(vm.SecurityContexts, viewmodels.SecurityContext{Context: s.Context, Value: s.Value})
	}
	return vm
}

func BulkToViewModel(r *backend.BulkOperationResponse) *viewmodels.BulkSummary {
	if r == nil {
		return nil
	}
	vm := &viewmodels.BulkSummary{
		Total:      r.TotalOperations,
		Successful: r.SuccessfulOperations,
		Failed:     r.FailedOperations,
	}
	for _, s := range r.Results {
		msg := s.Message
		if msg == "" {
			msg = s.Error
		}
		vm.Results = append(vm.Results, viewmodels.BulkStatus{Success: s.Success, Message: msg})
	}
	return vm
}

func UploadToViewModel(r *backend.UploadResponse) *viewmodels.UploadSummary {
	if r == nil {
		return nil
	}
	vm := &viewmodels.UploadSummary{
		Total:      r.Total(),
		Successful: r.SuccessCount,
		Failed:     r.FailureCount,
	}
	for _, e := range r.Errors {
		vm.Errors = append(vm.Errors, viewmodels.UploadRow{Row: e.Row, Username: e.Username, Text: e.Error})
	}
	for _, p := range r.ProcessedRecords {
		vm.Processed = append(vm.Processed, viewmodels.UploadRow{Row: p.Row, Username: p.Username, Text: p.Status})
	}
	return vm
}

func TemplatesToViewModels(basePath string, items []bulk.Template) []viewmodels.Template {
	out := make([]viewmodels.Template, 0, len(items))
	for _, t := range items {
		kind := string(t.Kind)
		out = append(out, viewmodels.Template{
			Kind:     kind,
			Label:    "Identity.Upload.Templates." + kind,
			CSVHref:  basePath + "/" + kind + ".csv",
			XLSXHref: basePath + "/" + kind + ".xlsx",
		})
	}
	return out
}
