package shell

import (
	"github.com/a-h/templ"

	"github.com/iota-uz/hcm-console/components/base"
	"github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/pkg/backend"
)

// Notify turns res into a notification of the workspace. Validation and
// missing sessions are warnings; every other failure shows the backend or
// transport text verbatim. A success without any message stays silent.
func Notify(ws *services.Workspace, res backend.OperationResult, success string) {
	center := ws.Notifications()
	switch {
	case res.Success:
		msg := res.Message
		if msg == "" {
			msg = success
		}
		if msg != "" {
			center.Success(msg)
		}
	case res.Kind == backend.KindValidation, res.Kind == backend.KindNotConnected:
		center.Warning(res.Error)
	default:
		center.Error(res.Error)
	}
}

// Result renders the JSON body of a successful call, or its error text.
func Result(res backend.OperationResult) templ.Component {
	if res.Success {
		return base.Card(base.T("Common.Response"), base.JSON(res.Data))
	}
	if res.Kind == backend.KindValidation || res.Kind == backend.KindNotConnected {
		return nil
	}
	return base.Alert("error", base.Text(res.Error))
}
