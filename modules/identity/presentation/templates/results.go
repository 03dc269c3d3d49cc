package templates

import (
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/iota-uz/hcm-console/components/base"
	"github.com/iota-uz/hcm-console/modules/identity/presentation/viewmodels"
)

func status(active bool) templ.Component {
	if active {
		return base.Element("span", base.Attrs{{"class", "status-badge active"}}, base.T("Identity.Status.Active"))
	}
	return base.Element("span", base.Attrs{{"class", "status-badge inactive"}}, base.T("Identity.Status.Inactive"))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func heading(id string, data ...map[string]interface{}) templ.Component {
	return base.Element("h4", nil, base.T(id, data...))
}

// UserDetailsCard renders identity, roles, AORs and security contexts of a user.
func UserDetailsCard(u *viewmodels.UserDetails) templ.Component {
	if u == nil {
		return nil
	}
	info := base.Element("dl", base.Attrs{{"class", "definitions user-info-grid"}},
		base.Element("dt", nil, base.T("Identity.User.Username")), base.Element("dd", nil, base.Text(u.Username)),
		base.Element("dt", nil, base.T("Identity.User.PersonNumber")), base.Element("dd", nil, base.Text(orNA(u.PersonNumber))),
		base.Element("dt", nil, base.T("Identity.User.DisplayName")), base.Element("dd", nil, base.Text(orNA(u.DisplayName))),
		base.Element("dt", nil, base.T("Identity.User.Email")), base.Element("dd", nil, base.Text(orNA(u.Email))),
		base.Element("dt", nil, base.T("Identity.User.Status")), base.Element("dd", nil, status(u.Active)),
	)

	var roles templ.Component = base.Empty("Identity.User.NoRoles")
	if len(u.Roles) > 0 {
		rows := make([][]string, 0, len(u.Roles))
		for _, r := range u.Roles {
			rows = append(rows, []string{r.Name, r.Description})
		}
		roles = base.Table([]string{"Identity.Columns.Role", "Identity.Columns.Description"}, rows)
	}

	var aors templ.Component = base.Empty("Identity.User.NoAORs")
	if len(u.AORs) > 0 {
		aors = AORTable(u.AORs)
	}

	var security templ.Component = base.Empty("Identity.User.NoSecurity")
	if len(u.SecurityContexts) > 0 {
		rows := make([][]string, 0, len(u.SecurityContexts))
		for _, s := range u.SecurityContexts {
			rows = append(rows, []string{s.Context, s.Value})
		}
		security = base.Table([]string{"Identity.Columns.Context", "Identity.Columns.Value"}, rows)
	}

	return base.Card(base.T("Identity.User.Title"),
		info,
		heading("Identity.User.Roles"), roles,
		heading("Identity.User.AORs"), aors,
		heading("Identity.User.Security"), security,
	)
}

func AORTable(items []viewmodels.AOR) templ.Component {
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		rows = append(rows, []string{a.ID, a.Name, a.Type})
	}
	return base.Table([]string{"Identity.Columns.ID", "Identity.Columns.Name", "Identity.Columns.Type"}, rows)
}

func UsersTable(users []viewmodels.User) templ.Component {
	head := make([]templ.Component, 0, 4)
	for _, h := range []string{"Identity.Columns.Username", "Identity.Columns.Email", "Identity.Columns.Status", "Identity.Columns.Roles"} {
		head = append(head, base.Element("th", nil, base.T(h)))
	}
	body := make([]templ.Component, 0, len(users))
	for _, u := range users {
		body = append(body, base.Element("tr", nil,
			base.Element("td", nil, base.Text(u.Username)),
			base.Element("td", nil, base.Text(orNA(u.Email))),
			base.Element("td", nil, status(u.Active)),
			base.Element("td", nil, base.Text(strings.Join(u.Roles, ", "))),
		))
	}
	return base.Element("table", base.Attrs{{"class", "table"}},
		base.Element("thead", nil, base.Element("tr", nil, head...)),
		base.Element("tbody", nil, body...),
	)
}

func UserSearchResult(users []viewmodels.User) templ.Component {
	var body templ.Component = base.Empty("Identity.Search.NoUsers")
	if len(users) > 0 {
		body = UsersTable(users)
	}
	return base.Card(base.T("Identity.Search.UsersFound", map[string]interface{}{"Count": len(users)}), body)
}

func AORSearchResult(items []viewmodels.AOR) templ.Component {
	var body templ.Component = base.Empty("Identity.Search.NoAORs")
	if len(items) > 0 {
		body = AORTable(items)
	}
	return base.Card(base.T("Identity.Search.AORsFound", map[string]interface{}{"Count": len(items)}), body)
}

func summaryItem(label string, value int, class string) templ.Component {
	return base.Element("div", base.Attrs{{"class", "summary-item"}},
		base.Element("span", base.Attrs{{"class", "label"}}, base.T(label)),
		base.Element("span", base.Attrs{{"class", "value " + class}}, base.Text(strconv.Itoa(value))),
	)
}

// BulkResult shows the backend's verdict on a bulk batch as-is.
func BulkResult(s *viewmodels.BulkSummary) templ.Component {
	if s == nil {
		return nil
	}
	var results templ.Component
	if len(s.Results) > 0 {
		rows := make([][]string, 0, len(s.Results))
		for i, r := range s.Results {
			outcome := "success"
			if !r.Success {
				outcome = "error"
			}
			rows = append(rows, []string{strconv.Itoa(i + 1), outcome, r.Message})
		}
		results = base.Table([]string{"Identity.Columns.Number", "Identity.Columns.Status", "Identity.Columns.Message"}, rows)
	}
	return base.Card(base.T("Identity.Bulk.Title"),
		base.Element("div", base.Attrs{{"class", "upload-summary"}},
			summaryItem("Identity.Summary.Total", s.Total, ""),
			summaryItem("Identity.Summary.Successful", s.Successful, "success"),
			summaryItem("Identity.Summary.Failed", s.Failed, "error"),
		),
		results,
	)
}

func uploadRows(items []viewmodels.UploadRow, class string) templ.Component {
	rows := make([]templ.Component, 0, len(items))
	for _, r := range items {
		rows = append(rows, base.Element("div", base.Attrs{{"class", class}},
			base.Element("span", base.Attrs{{"class", "row"}}, base.T("Identity.Upload.Row", map[string]interface{}{"Row": r.Row})),
			base.Element("span", nil, base.Text(r.Text)),
		))
	}
	return base.Group(rows...)
}

func UploadResult(s *viewmodels.UploadSummary) templ.Component {
	if s == nil {
		return nil
	}
	var errs, processed templ.Component
	if len(s.Errors) > 0 {
		errs = base.Group(heading("Identity.Upload.Errors"), uploadRows(s.Errors, "error-item"))
	}
	if len(s.Processed) > 0 {
		processed = base.Group(heading("Identity.Upload.Processed"), uploadRows(s.Processed, "processed-item"))
	}
	return base.Card(base.T("Identity.Upload.Results"),
		base.Element("div", base.Attrs{{"class", "upload-summary"}},
			summaryItem("Identity.Summary.TotalRecords", s.Total, ""),
			summaryItem("Identity.Summary.Successful", s.Successful, "success"),
			summaryItem("Identity.Summary.Failed", s.Failed, "error"),
		),
		errs,
		processed,
	)
}
