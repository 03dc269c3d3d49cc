package templates

import (
	"github.com/a-h/templ"

	"github.com/iota-uz/hcm-console/components/base"
	"github.com/iota-uz/hcm-console/modules/identity/presentation/viewmodels"
	logtemplates "github.com/iota-uz/hcm-console/modules/logging/presentation/templates"
	"github.com/iota-uz/hcm-console/modules/session/presentation/shell"
	"github.com/iota-uz/hcm-console/pkg/backend"
)

func failure(v *shell.View) templ.Component {
	if v.Err == nil {
		return nil
	}
	return base.Alert("error", base.Text(v.Err.Error()))
}

func input(v *shell.View, label, name, typ string) templ.Component {
	return base.Input(base.InputProps{Label: label, Name: name, Type: typ, Value: v.Value(name)})
}

func bulkForm(v *shell.View, action, hint, placeholder string) templ.Component {
	return base.Form(base.FormProps{Action: action},
		base.Element("p", base.Attrs{{"class", "muted"}}, base.T(hint)),
		base.Textarea(base.TextareaProps{
			Label:       "Identity.Fields.BulkData",
			Name:        "bulkData",
			Value:       v.Value("bulkData"),
			Placeholder: placeholder,
		}),
		base.Submit(base.T("Identity.Actions.BulkAssign"), base.VariantPrimary),
	)
}

// Dashboard shows the count tiles and the recent activity. Tiles are
// updated in place by snapshots from the live endpoint.
func Dashboard(v *shell.View) templ.Component {
	d, _ := v.Data.(*viewmodels.Dashboard)
	if d == nil {
		return base.Group(failure(v), base.Empty("Common.NothingToShow"))
	}
	tiles := make([]templ.Component, 0, len(d.Tiles))
	for _, t := range d.Tiles {
		class := "tile"
		if t.Failed {
			class += " tile-error"
		}
		tiles = append(tiles, base.Element("div", base.Attrs{{"class", class}, {"data-tile", t.Key}},
			base.Element("span", base.Attrs{{"class", "label"}}, base.T(t.Label)),
			base.Element("span", base.Attrs{{"class", "value"}}, base.Text(t.Value)),
		))
	}
	var recent templ.Component
	if d.RecentErr != "" {
		recent = base.Alert("error", base.Text(d.RecentErr))
	} else {
		recent = logtemplates.Table(d.Recent)
	}
	return base.Group(
		failure(v),
		base.Element("div", base.Attrs{{"class", "tiles"}, {"data-live", d.LivePath}}, tiles...),
		base.Element("p", base.Attrs{{"class", "muted"}},
			base.T("Identity.Dashboard.UpdatedAt", map[string]interface{}{"Time": d.UpdatedAt}),
		),
		base.Card(base.T("Identity.Dashboard.Recent"), recent),
		base.LinkButton("/users/export.xlsx", base.T("Identity.Actions.Export"), base.VariantSecondary),
	)
}

// UserDetails covers lookup and both password forms.
func UserDetails(v *shell.View) templ.Component {
	var form templ.Component
	switch v.Tab {
	case "password-reset":
		form = base.Form(base.FormProps{Action: "/password/reset"},
			input(v, "Identity.Fields.Username", "username", ""),
			input(v, "Identity.Fields.NewPassword", "newPassword", "password"),
			base.Submit(base.T("Identity.Actions.ResetPassword"), base.VariantPrimary),
		)
	case "password-update":
		form = base.Form(base.FormProps{Action: "/password/update"},
			input(v, "Identity.Fields.Username", "username", ""),
			input(v, "Identity.Fields.CurrentPassword", "currentPassword", "password"),
			input(v, "Identity.Fields.NewPassword", "newPassword", "password"),
			base.Submit(base.T("Identity.Actions.UpdatePassword"), base.VariantPrimary),
		)
	default:
		form = base.Group(
			base.Form(base.FormProps{Action: "/users/details"},
				input(v, "Identity.Fields.Username", "username", ""),
				base.Submit(base.T("Identity.Actions.Lookup"), base.VariantPrimary),
			),
			base.LinkButton("/users/export.xlsx", base.T("Identity.Actions.Export"), base.VariantSecondary),
		)
	}
	return base.Group(failure(v), base.Card(nil, form), v.Result)
}

func RoleManagement(v *shell.View) templ.Component {
	var form templ.Component
	switch v.Tab {
	case "remove":
		form = base.Form(base.FormProps{Action: "/roles/remove"},
			input(v, "Identity.Fields.Username", "username", ""),
			input(v, "Identity.Fields.RoleName", "roleName", ""),
			base.Submit(base.T("Identity.Actions.Remove"), base.VariantDanger),
		)
	case "bulk":
		form = bulkForm(v, "/roles/bulk-assign", "Identity.Bulk.RoleHint", "john.doe,HR_MANAGER")
	default:
		form = base.Form(base.FormProps{Action: "/roles/assign"},
			input(v, "Identity.Fields.Username", "username", ""),
			input(v, "Identity.Fields.RoleName", "roleName", ""),
			base.Submit(base.T("Identity.Actions.Assign"), base.VariantPrimary),
		)
	}
	return base.Group(failure(v), base.Card(nil, form), v.Result)
}

func SecurityManagement(v *shell.View) templ.Component {
	var form templ.Component
	switch v.Tab {
	case "bulk":
		form = bulkForm(v, "/security/bulk-assign", "Identity.Bulk.SecurityHint", "john.doe,HR_MANAGER,DEPARTMENT,IT")
	default:
		form = base.Form(base.FormProps{Action: "/security/assign"},
			input(v, "Identity.Fields.Username", "username", ""),
			input(v, "Identity.Fields.RoleName", "roleName", ""),
			input(v, "Identity.Fields.SecurityContext", "securityContext", ""),
			input(v, "Identity.Fields.SecurityValue", "securityValue", ""),
			base.Submit(base.T("Identity.Actions.Assign"), base.VariantPrimary),
		)
	}
	return base.Group(failure(v), base.Card(nil, form), v.Result)
}

var aorTypes = []base.Option{
	{Value: "", Label: "Identity.AORTypes.Default"},
	{Value: backend.DefaultAORType, Label: "Identity.AORTypes.GENERAL"},
	{Value: "HR", Label: "Identity.AORTypes.HR"},
	{Value: "IT", Label: "Identity.AORTypes.IT"},
	{Value: "FINANCE", Label: "Identity.AORTypes.FINANCE"},
}

// AORManagement lists the areas loaded on navigation below the forms.
func AORManagement(v *shell.View) templ.Component {
	var form templ.Component
	switch v.Tab {
	case "remove":
		form = base.Form(base.FormProps{Action: "/aor/remove"},
			input(v, "Identity.Fields.Username", "username", ""),
			input(v, "Identity.Fields.AORID", "aorId", ""),
			base.Submit(base.T("Identity.Actions.Remove"), base.VariantDanger),
		)
	case "bulk":
		form = bulkForm(v, "/aor/bulk-assign", "Identity.Bulk.AORHint", "john.doe,HR_DEPARTMENT,HR")
	default:
		form = base.Form(base.FormProps{Action: "/aor/assign"},
			input(v, "Identity.Fields.Username", "username", ""),
			input(v, "Identity.Fields.AORName", "aorName", ""),
			base.Select(base.SelectProps{Label: "Identity.Fields.AORType", Name: "aorType", Value: v.Value("aorType"), Options: aorTypes}),
			base.Submit(base.T("Identity.Actions.Assign"), base.VariantPrimary),
		)
	}
	var list templ.Component
	if items, ok := v.Data.([]viewmodels.AOR); ok {
		if len(items) == 0 {
			list = base.Card(base.T("Identity.AOR.Available"), base.Empty("Identity.Search.NoAORs"))
		} else {
			list = base.Card(base.T("Identity.AOR.Available"), AORTable(items))
		}
	}
	return base.Group(failure(v), base.Card(nil, form), v.Result, list)
}

var operationTypes = []base.Option{
	{Value: "", Label: "Identity.Upload.Operations.None"},
	{Value: string(backend.OperationRoleAssignment), Label: "Identity.Upload.Operations.role_assignment"},
	{Value: string(backend.OperationDataSecurity), Label: "Identity.Upload.Operations.data_security"},
	{Value: string(backend.OperationAORAssignment), Label: "Identity.Upload.Operations.aor_assignment"},
}

func Upload(v *shell.View) templ.Component {
	form := base.Form(base.FormProps{Action: "/upload/excel", Multipart: true},
		base.Input(base.InputProps{Label: "Identity.Fields.File", Name: "file", Type: "file", Accept: ".xlsx,.xls"}),
		base.Select(base.SelectProps{Label: "Identity.Fields.OperationType", Name: "operationType", Value: v.Value("operationType"), Options: operationTypes}),
		base.Submit(base.T("Identity.Actions.Upload"), base.VariantPrimary),
	)
	var downloads templ.Component
	if items, ok := v.Data.([]viewmodels.Template); ok && len(items) > 0 {
		rows := make([]templ.Component, 0, len(items))
		for _, t := range items {
			rows = append(rows, base.Element("li", nil,
				base.Element("span", nil, base.T(t.Label)), base.Text(" "),
				base.Element("a", base.Attrs{{"href", t.CSVHref}, {"download", ""}}, base.Text("CSV")), base.Text(" "),
				base.Element("a", base.Attrs{{"href", t.XLSXHref}, {"download", ""}}, base.Text("XLSX")),
			))
		}
		downloads = base.Card(base.T("Identity.Upload.TemplatesTitle"), base.Element("ul", base.Attrs{{"class", "templates"}}, rows...))
	}
	return base.Group(failure(v), base.Card(nil, form), v.Result, downloads)
}

var searchAORTypes = append([]base.Option{{Value: "", Label: "Identity.Search.AnyType"}}, aorTypes[1:]...)

var activeOptions = []base.Option{
	{Value: "", Label: "Identity.Search.AnyStatus"},
	{Value: "true", Label: "Identity.Status.Active"},
	{Value: "false", Label: "Identity.Status.Inactive"},
}

func Search(v *shell.View) templ.Component {
	var form templ.Component
	switch v.Tab {
	case "aors":
		form = base.Form(base.FormProps{Action: "/search/aors"},
			input(v, "Identity.Fields.AORName", "name", ""),
			base.Select(base.SelectProps{Label: "Identity.Fields.AORType", Name: "type", Value: v.Value("type"), Options: searchAORTypes}),
			base.Submit(base.T("Identity.Actions.Search"), base.VariantPrimary),
		)
	default:
		form = base.Form(base.FormProps{Action: "/search/users"},
			input(v, "Identity.Fields.Username", "username", ""),
			input(v, "Identity.Fields.Email", "email", "email"),
			base.Select(base.SelectProps{Label: "Identity.Fields.Active", Name: "active", Value: v.Value("active"), Options: activeOptions}),
			base.Submit(base.T("Identity.Actions.Search"), base.VariantPrimary),
		)
	}
	return base.Group(failure(v), base.Card(nil, form), v.Result)
}
