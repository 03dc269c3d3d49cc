package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/iota-uz/hcm-console/pkg/intl"
)

// LanguageCookie stores the language picked in the header switcher.
const LanguageCookie = "hcm_lang"

type Application interface {
	Bundle() *i18n.Bundle
	GetSupportedLanguages() []string
}

func matchSupported(defaultLocale language.Tag, supported []language.Tag, candidates []language.Tag) language.Tag {
	if len(supported) == 0 {
		return defaultLocale
	}
	if len(candidates) == 0 {
		candidates = []language.Tag{defaultLocale}
	}
	matcher := language.NewMatcher(supported)
	_, idx, _ := matcher.Match(candidates...)
	return supported[idx]
}

// useLocale prefers the ?lang query, then the language cookie, then
// Accept-Language.
func useLocale(r *http.Request, defaultLocale language.Tag, supported []language.Tag) language.Tag {
	explicit := r.URL.Query().Get("lang")
	if explicit == "" {
		if c, err := r.Cookie(LanguageCookie); err == nil {
			explicit = c.Value
		}
	}
	if explicit != "" {
		if tag, err := language.Parse(explicit); err == nil {
			return matchSupported(defaultLocale, supported, []language.Tag{tag})
		}
	}
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return matchSupported(defaultLocale, supported, nil)
	}
	return matchSupported(defaultLocale, supported, tags)
}

func ProvideLocalizer(app Application) mux.MiddlewareFunc {
	bundle := app.Bundle()
	supportedLanguages := intl.Tags(app.GetSupportedLanguages())
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				locale := useLocale(r, language.English, supportedLanguages)
				if q := r.URL.Query().Get("lang"); q != "" {
					http.SetCookie(w, &http.Cookie{
						Name:     LanguageCookie,
						Value:    locale.String(),
						Path:     "/",
						HttpOnly: true,
						SameSite: http.SameSiteLaxMode,
					})
				}
				ctx := intl.WithLocalizer(r.Context(), i18n.NewLocalizer(bundle, locale.String()))
				ctx = intl.WithLocale(ctx, locale)
				next.ServeHTTP(w, r.WithContext(ctx))
			},
		)
	}
}
