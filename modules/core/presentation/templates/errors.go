package templates

import (
	"github.com/a-h/templ"

	"github.com/iota-uz/hcm-console/components/base"
)

func NotFoundContent() templ.Component {
	return base.Element("div", base.Attrs{{"class", "error-page"}},
		base.Element("p", nil, base.T("Errors.NotFound.Message")),
		base.LinkButton("/", base.T("Errors.BackHome"), base.VariantPrimary),
	)
}
