package types

import (
	"github.com/a-h/templ"
)

type NavigationItem struct {
	Name   string
	Href   string
	Screen string
	Icon   templ.Component
	// RequiresSession hides the item while the workspace is disconnected.
	RequiresSession bool
}
