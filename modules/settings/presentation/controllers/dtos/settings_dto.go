package dtos

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/iota-uz/hcm-console/modules/settings/domain"
	"github.com/iota-uz/hcm-console/pkg/intl"
)

type SettingsDTO struct {
	Theme          string `form:"theme"`
	AutoRefresh    string `form:"autoRefresh"`
	CompanyName    string `form:"companyName"`
	PrimaryColor   string `form:"primaryColor"`
	SecondaryColor string `form:"secondaryColor"`
	LogoURL        string `form:"logoUrl"`
}

func FromSettings(s domain.Settings) *SettingsDTO {
	return &SettingsDTO{
		Theme:          s.Theme,
		AutoRefresh:    strconv.Itoa(s.AutoRefresh),
		CompanyName:    s.Branding.CompanyName,
		PrimaryColor:   s.Branding.PrimaryColor,
		SecondaryColor: s.Branding.SecondaryColor,
		LogoURL:        s.Branding.LogoURL,
	}
}

// ToSettings converts the form. A blank interval means no auto-refresh and
// anything else that is not a number is rejected as out of range.
func (d *SettingsDTO) ToSettings() domain.Settings {
	refresh := 0
	if d.AutoRefresh != "" {
		n, err := strconv.Atoi(d.AutoRefresh)
		if err != nil {
			n = -1
		}
		refresh = n
	}
	return domain.Settings{
		Theme:       d.Theme,
		AutoRefresh: refresh,
		Branding: domain.Branding{
			CompanyName:    d.CompanyName,
			PrimaryColor:   d.PrimaryColor,
			SecondaryColor: d.SecondaryColor,
			LogoURL:        d.LogoURL,
		},
	}.Normalize()
}

// Ok validates the form and returns translated messages keyed by form field.
func (d *SettingsDTO) Ok(ctx context.Context) (map[string]string, bool) {
	return Errors(ctx, d.ToSettings().Validate())
}

var fieldNames = map[string]string{
	"Theme":          "theme",
	"AutoRefresh":    "autoRefresh",
	"PrimaryColor":   "primaryColor",
	"SecondaryColor": "secondaryColor",
	"LogoURL":        "logoUrl",
}

// Errors maps validation errors of domain.Settings to form fields.
func Errors(ctx context.Context, err error) (map[string]string, bool) {
	errorMessages := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errorMessages, true
	}
	for _, e := range verrs {
		name, ok := fieldNames[e.Field()]
		if !ok {
			continue
		}
		errorMessages[name] = intl.T(ctx, "Settings.Errors."+e.Field())
	}
	return errorMessages, len(errorMessages) == 0
}
