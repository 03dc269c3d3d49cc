package navigation

import (
	"slices"

	"github.com/go-faster/errors"
)

var (
	ErrUnknownScreen = errors.New("unknown screen")
	ErrUnknownTab    = errors.New("unknown tab")
)

type Screen string

const (
	Dashboard          Screen = "dashboard"
	UserDetails        Screen = "user-details"
	RoleManagement     Screen = "role-management"
	SecurityManagement Screen = "security-management"
	AORManagement      Screen = "aor-management"
	Upload             Screen = "upload"
	Search             Screen = "search"
	Logs               Screen = "logs"
)

// Definition describes one entry of the fixed screen set. The first tab is
// the default.
type Definition struct {
	Screen          Screen
	Icon            string
	Tabs            []string
	RequiresSession bool
}

func (d Definition) HasTab(tab string) bool {
	return slices.Contains(d.Tabs, tab)
}

func (d Definition) DefaultTab() string {
	if len(d.Tabs) == 0 {
		return ""
	}
	return d.Tabs[0]
}

// TitleKey is the translation message id of the screen title.
func (d Definition) TitleKey() string {
	return "Screens." + string(d.Screen) + ".Title"
}

var definitions = []Definition{
	{Screen: Dashboard, Icon: "gauge", RequiresSession: true},
	{Screen: UserDetails, Icon: "user", Tabs: []string{"lookup", "password-reset", "password-update"}, RequiresSession: true},
	{Screen: RoleManagement, Icon: "user-gear", Tabs: []string{"assign", "remove", "bulk"}, RequiresSession: true},
	{Screen: SecurityManagement, Icon: "shield", Tabs: []string{"assign", "bulk"}, RequiresSession: true},
	{Screen: AORManagement, Icon: "sitemap", Tabs: []string{"assign", "remove", "bulk"}, RequiresSession: true},
	{Screen: Upload, Icon: "upload", RequiresSession: true},
	{Screen: Search, Icon: "magnifying-glass", Tabs: []string{"users", "aors"}, RequiresSession: true},
	{Screen: Logs, Icon: "list"},
}

// Definitions returns the screens in sidebar order.
func Definitions() []Definition {
	return slices.Clone(definitions)
}

func Lookup(name string) (Definition, error) {
	for _, d := range definitions {
		if string(d.Screen) == name {
			return d, nil
		}
	}
	return Definition{}, errors.Wrapf(ErrUnknownScreen, "%q", name)
}
