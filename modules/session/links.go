package session

import (
	"github.com/a-h/templ"

	"github.com/iota-uz/hcm-console/components/base"
	"github.com/iota-uz/hcm-console/pkg/navigation"
	"github.com/iota-uz/hcm-console/pkg/types"
)

func icon(name string) templ.Component {
	return base.Element("i", base.Attrs{{"class", "ph ph-" + name}, {"aria-hidden", "true"}})
}

// NavItems has one sidebar entry per screen, in screen order.
var NavItems = func() []types.NavigationItem {
	defs := navigation.Definitions()
	items := make([]types.NavigationItem, 0, len(defs))
	for _, def := range defs {
		items = append(items, types.NavigationItem{
			Name:            def.TitleKey(),
			Href:            "/screens/" + string(def.Screen),
			Screen:          string(def.Screen),
			Icon:            icon(def.Icon),
			RequiresSession: def.RequiresSession,
		})
	}
	return items
}()
