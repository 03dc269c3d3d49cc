// Package layout renders the application shell around every screen.
package layout

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/a-h/templ"
	"github.com/benbjohnson/hashfs"

	"github.com/iota-uz/hcm-console/components/base"
	"github.com/iota-uz/hcm-console/pkg/composables"
	"github.com/iota-uz/hcm-console/pkg/notify"
	"github.com/iota-uz/hcm-console/pkg/types"
)

type Props struct {
	// Title is a message id.
	Title         string
	Screen        string
	Connected     bool
	Username      string
	InstanceURL   string
	NavItems      []types.NavigationItem
	Notifications []notify.Notification
	Appearance    types.Appearance
	// Assets resolves content-hashed file names; nil links the plain names.
	Assets *hashfs.FS
}

func assetURL(assets *hashfs.FS, name string) string {
	if assets != nil {
		name = assets.HashName(name)
	}
	return "/static/" + name
}

var cssColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// themeStyle overrides the color variables. Colors are re-checked here since
// they end up inside a style element.
func themeStyle(a types.Appearance) string {
	out := ":root{"
	if cssColor.MatchString(a.PrimaryColor) {
		out += "--primary:" + a.PrimaryColor + ";"
	}
	if cssColor.MatchString(a.SecondaryColor) {
		out += "--secondary:" + a.SecondaryColor + ";"
	}
	return out + "}"
}

func Layout(p Props, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		pageCtx := composables.UsePageCtx(ctx)
		company := p.Appearance.CompanyName
		if company == "" {
			company = pageCtx.TSafe("Layout.DefaultCompany")
		}
		title := pageCtx.TSafe(p.Title) + " | " + company
		lang := pageCtx.GetLocale().String()
		if lang == "und" {
			lang = "en"
		}
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="%s" data-theme="%s"><head><meta charset="utf-8">`+
				`<meta name="viewport" content="width=device-width, initial-scale=1">`+
				`<title>%s</title><link rel="stylesheet" href="%s"><style>%s</style></head><body>`,
			templ.EscapeString(lang), templ.EscapeString(p.Appearance.ThemeAttr()),
			templ.EscapeString(title), templ.EscapeString(assetURL(p.Assets, "app.css")), themeStyle(p.Appearance),
		); err != nil {
			return err
		}
		shell := base.Element("div", base.Attrs{{"class", "shell"}},
			sidebar(p, company),
			base.Element("div", base.Attrs{{"class", "content"}},
				topbar(p),
				Notifications(p.Notifications),
				base.Element("main", nil,
					base.Element("h1", nil, base.T(p.Title)),
					content,
				),
			),
		)
		if err := shell.Render(ctx, w); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, `<script src="%s" defer></script></body></html>`, templ.EscapeString(assetURL(p.Assets, "app.js")))
		return err
	})
}

func sidebar(p Props, company string) templ.Component {
	brand := []templ.Component{}
	if p.Appearance.LogoURL != "" {
		brand = append(brand, base.Void("img", base.Attrs{{"src", p.Appearance.LogoURL}, {"alt", company}}))
	}
	brand = append(brand, base.Element("span", nil, base.Text(company)))

	links := make([]templ.Component, 0, len(p.NavItems))
	for _, item := range p.NavItems {
		if item.RequiresSession && !p.Connected {
			continue
		}
		class := "nav-link"
		if item.Screen != "" && item.Screen == p.Screen {
			class += " active"
		}
		children := []templ.Component{}
		if item.Icon != nil {
			children = append(children, item.Icon)
		}
		children = append(children, base.Text(item.Name))
		links = append(links, base.Element("a", base.Attrs{{"href", item.Href}, {"class", class}}, children...))
	}
	return base.Element("aside", base.Attrs{{"class", "sidebar"}},
		base.Element("div", base.Attrs{{"class", "brand"}}, brand...),
		base.Element("nav", nil, links...),
	)
}

func topbar(p Props) templ.Component {
	var status, session templ.Component
	if p.Connected {
		status = base.Element("span", base.Attrs{{"class", "badge ok"}}, base.T("Session.Status.Connected"))
		session = base.Group(
			base.Element("span", base.Attrs{{"class", "session-user"}}, base.Text(p.Username+" @ "+p.InstanceURL)),
			base.Form(base.FormProps{Action: "/session/disconnect", Class: "inline"},
				base.Submit(base.T("Session.Disconnect"), base.VariantSecondary),
			),
		)
	} else {
		status = base.Element("span", base.Attrs{{"class", "badge failed"}}, base.T("Session.Status.Disconnected"))
	}
	return base.Element("header", base.Attrs{{"class", "topbar"}},
		base.Element("div", nil, status, session),
		base.Element("div", base.Attrs{{"class", "languages"}},
			base.Element("a", base.Attrs{{"href", "?lang=en"}}, base.Text("EN")),
			base.Text(" / "),
			base.Element("a", base.Attrs{{"href", "?lang=zh"}}, base.Text("中文")),
			base.Text(" | "),
			base.Element("a", base.Attrs{{"href", "/settings"}}, base.T("Settings.Title")),
			base.Text(" | "),
			base.Element("a", base.Attrs{{"href", "/help"}}, base.T("Help.Title")),
		),
	)
}

// Notifications renders the banners of a workspace. The script removes each
// one at its expiry time.
func Notifications(items []notify.Notification) templ.Component {
	children := make([]templ.Component, 0, len(items))
	for _, n := range items {
		children = append(children, base.Element("div",
			base.Attrs{
				{"class", "alert alert-" + string(n.Severity)},
				{"role", "alert"},
				{"data-expires", n.ExpiresAt.UTC().Format(time.RFC3339Nano)},
			},
			base.Element("span", nil, base.Text(n.Message)),
			base.Form(base.FormProps{Action: "/notifications/dismiss"},
				base.Void("input", base.Attrs{{"type", "hidden"}, {"name", "id"}, {"value", n.ID}}),
				base.Element("button", base.Attrs{{"type", "submit"}, {"aria-label", "dismiss"}}, base.Text("×")),
			),
		))
	}
	return base.Element("div", base.Attrs{{"class", "notifications"}}, children...)
}
