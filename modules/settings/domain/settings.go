// Package domain holds the per-browser console settings.
package domain

import (
	"strings"
	"time"

	"github.com/iota-uz/hcm-console/pkg/constants"
	"github.com/iota-uz/hcm-console/pkg/storage"
	"github.com/iota-uz/hcm-console/pkg/types"
)

// RecordKey is the record the settings are persisted under.
const RecordKey = storage.SettingsKey

// MaxAutoRefresh is the longest auto-refresh interval in seconds.
const MaxAutoRefresh = 3600

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"
)

type Branding struct {
	CompanyName    string `json:"companyName"`
	PrimaryColor   string `json:"primaryColor" validate:"omitempty,hexcolor,len=4|len=7"`
	SecondaryColor string `json:"secondaryColor" validate:"omitempty,hexcolor,len=4|len=7"`
	LogoURL        string `json:"logoUrl" validate:"omitempty,http_url"`
}

type Settings struct {
	Theme string `json:"theme" validate:"omitempty,oneof=light dark auto"`
	// AutoRefresh is the dashboard refresh interval in seconds, 0 disables it.
	AutoRefresh int      `json:"autoRefresh" validate:"min=0,max=3600"`
	Branding    Branding `json:"branding"`
}

func Default() Settings {
	return Settings{Theme: ThemeLight}
}

// Normalize trims every text field and maps an empty theme to light.
func (s Settings) Normalize() Settings {
	s.Theme = strings.ToLower(strings.TrimSpace(s.Theme))
	if s.Theme == "" {
		s.Theme = ThemeLight
	}
	s.Branding.CompanyName = strings.TrimSpace(s.Branding.CompanyName)
	s.Branding.PrimaryColor = strings.TrimSpace(s.Branding.PrimaryColor)
	s.Branding.SecondaryColor = strings.TrimSpace(s.Branding.SecondaryColor)
	s.Branding.LogoURL = strings.TrimSpace(s.Branding.LogoURL)
	return s
}

// Validate returns validator.ValidationErrors for out of range fields.
func (s Settings) Validate() error {
	return constants.Validate.Struct(s)
}

func (s Settings) Interval() time.Duration {
	return time.Duration(s.AutoRefresh) * time.Second
}

func (s Settings) Appearance() types.Appearance {
	return types.Appearance{
		Theme:          s.Theme,
		CompanyName:    s.Branding.CompanyName,
		PrimaryColor:   s.Branding.PrimaryColor,
		SecondaryColor: s.Branding.SecondaryColor,
		LogoURL:        s.Branding.LogoURL,
	}
}
