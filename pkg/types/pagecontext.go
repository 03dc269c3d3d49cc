package types

import (
	"net/url"

	"github.com/iota-uz/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// PageContextProvider provides localization and page metadata to templates.
type PageContextProvider interface {
	// T translates a message ID to the current locale with optional template data.
	T(key string, args ...map[string]interface{}) string

	// TSafe is like T but returns the key instead of panicking.
	TSafe(key string, args ...map[string]interface{}) string

	// Namespace returns a provider that prefixes every message ID.
	Namespace(prefix string) PageContextProvider

	ToJSLocale() string
	GetLocale() language.Tag
	GetURL() *url.URL
	GetLocalizer() *i18n.Localizer
}

type PageContext struct {
	Locale    language.Tag
	URL       *url.URL
	Localizer *i18n.Localizer
	prefix    string
}

var _ PageContextProvider = (*PageContext)(nil)

func (p *PageContext) messageID(k string) string {
	if p.prefix != "" {
		return p.prefix + "." + k
	}
	return k
}

func (p *PageContext) T(k string, args ...map[string]interface{}) string {
	if len(args) > 1 {
		panic("T(): too many arguments")
	}
	cfg := &i18n.LocalizeConfig{MessageID: p.messageID(k)}
	if len(args) == 1 {
		cfg.TemplateData = args[0]
	}
	return p.Localizer.MustLocalize(cfg)
}

func (p *PageContext) TSafe(k string, args ...map[string]interface{}) string {
	if len(args) > 1 {
		panic("T(): too many arguments")
	}
	id := p.messageID(k)
	if p.Localizer == nil {
		return id
	}
	cfg := &i18n.LocalizeConfig{MessageID: id}
	if len(args) == 1 {
		cfg.TemplateData = args[0]
	}
	result, err := p.Localizer.Localize(cfg)
	if err != nil {
		return id
	}
	return result
}

func (p *PageContext) Namespace(prefix string) PageContextProvider {
	return &PageContext{
		Locale:    p.Locale,
		URL:       p.URL,
		Localizer: p.Localizer,
		prefix:    prefix,
	}
}

// ToJSLocale maps the page locale to a BCP 47 tag understood by Intl APIs.
// Unknown locales default to "en-US".
func (p *PageContext) ToJSLocale() string {
	switch p.Locale.String() {
	case "zh", "zh-CN", "zh-Hans":
		return "zh-CN"
	case "zh-TW", "zh-Hant":
		return "zh-TW"
	case "en-GB":
		return "en-GB"
	default:
		return "en-US"
	}
}

func (p *PageContext) GetLocale() language.Tag {
	return p.Locale
}

func (p *PageContext) GetURL() *url.URL {
	return p.URL
}

func (p *PageContext) GetLocalizer() *i18n.Localizer {
	return p.Localizer
}
