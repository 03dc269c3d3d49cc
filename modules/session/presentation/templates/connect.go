package templates

import (
	"github.com/a-h/templ"

	"github.com/iota-uz/hcm-console/components/base"
	"github.com/iota-uz/hcm-console/modules/session/presentation/controllers/dtos"
	"github.com/iota-uz/hcm-console/pkg/navigation"
)

// Connect is the screen shown while the workspace holds no credentials.
func Connect(values *dtos.ConnectDTO) templ.Component {
	if values == nil {
		values = &dtos.ConnectDTO{}
	}
	return base.Card(base.T("Session.Connect.Title"),
		base.Element("p", nil, base.T("Session.Connect.Hint")),
		base.Form(base.FormProps{Action: "/session/connect"},
			base.Input(base.InputProps{
				Label:       "Session.Connect.InstanceURL",
				Name:        "instanceUrl",
				Type:        "url",
				Value:       values.InstanceURL,
				Placeholder: "https://your-instance.oraclecloud.com",
			}),
			base.Input(base.InputProps{Label: "Session.Connect.Username", Name: "username", Value: values.Username}),
			base.Input(base.InputProps{Label: "Session.Connect.Password", Name: "password", Type: "password"}),
			base.Element("div", base.Attrs{{"class", "actions"}},
				base.Submit(base.T("Session.Connect.Submit"), base.VariantPrimary),
				base.Element("button", base.Attrs{
					{"type", "submit"},
					{"formaction", "/session/test"},
					{"class", "btn btn-secondary"},
				}, base.T("Session.Connect.Test")),
			),
		),
	)
}

// Help lists what every screen does.
func Help() templ.Component {
	items := make([]templ.Component, 0, len(navigation.Definitions()))
	for _, def := range navigation.Definitions() {
		items = append(items, base.Element("li", nil,
			base.Element("strong", nil, base.T(def.TitleKey())),
			base.Text(": "),
			base.T("Help.Screens."+string(def.Screen)),
		))
	}
	return base.Group(
		base.Card(base.T("Help.Overview.Title"), base.Element("p", nil, base.T("Help.Overview.Body"))),
		base.Card(base.T("Help.Screens.Title"), base.Element("ul", nil, items...)),
		base.Card(base.T("Help.Bulk.Title"),
			base.Element("p", nil, base.T("Help.Bulk.Body")),
			base.Element("pre", nil, base.Text("username,role_name\njohn.doe,HR_MANAGER\njane.smith,EMPLOYEE")),
		),
	)
}
