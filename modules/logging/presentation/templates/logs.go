package templates

import (
	"github.com/a-h/templ"

	"github.com/iota-uz/hcm-console/components/base"
	"github.com/iota-uz/hcm-console/modules/logging/presentation/viewmodels"
	"github.com/iota-uz/hcm-console/modules/session/presentation/shell"
)

var headers = []string{
	"Logs.Columns.Time",
	"Logs.Columns.Action",
	"Logs.Columns.Target",
	"Logs.Columns.Status",
	"Logs.Columns.Message",
}

// Table renders activities newest first.
func Table(logs []*viewmodels.Activity) templ.Component {
	if len(logs) == 0 {
		return base.Empty("Logs.Empty")
	}
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []string{l.CreatedAt, l.Action, l.Target, l.Status, l.Message})
	}
	return base.Table(headers, rows)
}

// Logs is the renderer of the logs screen.
func Logs(v *shell.View) templ.Component {
	props, _ := v.Data.(*viewmodels.LogsPageProps)
	if props == nil {
		props = &viewmodels.LogsPageProps{BasePath: "/logs"}
	}
	var failure templ.Component
	if v.Err != nil {
		failure = base.Alert("error", base.Text(v.Err.Error()))
	}
	return base.Card(base.T("Logs.Title"),
		failure,
		base.Element("p", base.Attrs{{"class", "muted"}},
			base.T("Logs.Summary", map[string]interface{}{"Total": props.Total, "Limit": props.Limit}),
		),
		Table(props.Logs),
		base.Form(base.FormProps{Action: props.BasePath + "/clear"},
			base.Submit(base.T("Logs.Clear"), base.VariantDanger),
		),
	)
}
