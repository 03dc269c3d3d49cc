package templates

import (
	"github.com/a-h/templ"

	"github.com/iota-uz/hcm-console/components/base"
	"github.com/iota-uz/hcm-console/modules/settings/domain"
	"github.com/iota-uz/hcm-console/modules/settings/presentation/controllers/dtos"
)

type SettingsProps struct {
	Values *dtos.SettingsDTO
	Errors map[string]string
}

var themes = []base.Option{
	{Value: domain.ThemeLight, Label: "Settings.Theme.Light"},
	{Value: domain.ThemeDark, Label: "Settings.Theme.Dark"},
	{Value: domain.ThemeAuto, Label: "Settings.Theme.Auto"},
}

func Settings(p SettingsProps) templ.Component {
	v := p.Values
	if v == nil {
		v = dtos.FromSettings(domain.Default())
	}
	return base.Card(base.T("Settings.Title"),
		base.Form(base.FormProps{Action: "/settings", Class: "settings-form"},
			base.Element("fieldset", nil,
				base.Element("legend", nil, base.T("Settings.Appearance")),
				base.Select(base.SelectProps{
					Label:   "Settings.Theme.Label",
					Name:    "theme",
					Value:   v.Theme,
					Options: themes,
					Error:   p.Errors["theme"],
				}),
				base.Input(base.InputProps{
					Label: "Settings.AutoRefresh",
					Name:  "autoRefresh",
					Type:  "number",
					Value: v.AutoRefresh,
					Min:   "0",
					Max:   "3600",
					Error: p.Errors["autoRefresh"],
				}),
			),
			base.Element("fieldset", nil,
				base.Element("legend", nil, base.T("Settings.Branding")),
				base.Input(base.InputProps{
					Label: "Settings.CompanyName",
					Name:  "companyName",
					Value: v.CompanyName,
				}),
				base.Input(base.InputProps{
					Label:       "Settings.PrimaryColor",
					Name:        "primaryColor",
					Value:       v.PrimaryColor,
					Placeholder: "#2563eb",
					Error:       p.Errors["primaryColor"],
				}),
				base.Input(base.InputProps{
					Label:       "Settings.SecondaryColor",
					Name:        "secondaryColor",
					Value:       v.SecondaryColor,
					Placeholder: "#64748b",
					Error:       p.Errors["secondaryColor"],
				}),
				base.Input(base.InputProps{
					Label:       "Settings.LogoURL",
					Name:        "logoUrl",
					Type:        "url",
					Value:       v.LogoURL,
					Placeholder: "https://",
					Error:       p.Errors["logoUrl"],
				}),
			),
			base.Submit(base.T("Settings.Save"), base.VariantPrimary),
		),
	)
}
