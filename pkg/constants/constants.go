package constants

import (
	"github.com/go-playground/form"
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	LoggerKey      ContextKey = "logger"
	RequestStart   ContextKey = "requestStart"
	ParamsKey      ContextKey = "params"
	BrowserIDKey   ContextKey = "browserID"
	LocalizerKey   ContextKey = "localizer"
	LocaleKey      ContextKey = "locale"
	AppKey         ContextKey = "app"
	PageContextKey ContextKey = "pageContext"
	PoolKey        ContextKey = "pool"
	TxKey          ContextKey = "tx"
	AppearanceKey  ContextKey = "appearance"
	WorkspaceKey   ContextKey = "workspace"
)

// Validate is shared by every DTO so struct metadata is cached once.
var Validate = validator.New(validator.WithRequiredStructEnabled())

// Decoder decodes url.Values into DTOs using their `form` tags.
var Decoder = form.NewDecoder()
