package types

// Appearance is the part of the user settings the layout applies to every
// page.
type Appearance struct {
	Theme          string
	CompanyName    string
	PrimaryColor   string
	SecondaryColor string
	LogoURL        string
}

// ThemeAttr resolves the value of the document's data-theme attribute.
func (a Appearance) ThemeAttr() string {
	switch a.Theme {
	case "dark", "auto":
		return a.Theme
	default:
		return "light"
	}
}
