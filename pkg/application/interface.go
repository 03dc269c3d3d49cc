package application

import (
	"embed"

	"github.com/benbjohnson/hashfs"
	"github.com/gorilla/mux"
	"github.com/iota-uz/go-i18n/v2/i18n"

	"github.com/iota-uz/hcm-console/pkg/eventbus"
	"github.com/iota-uz/hcm-console/pkg/types"
)

type Controller interface {
	Register(r *mux.Router)
	Key() string
}

type Module interface {
	Register(app Application) error
	Name() string
}

// Application is the registry modules use to contribute services,
// controllers, middleware, locale files and navigation.
type Application interface {
	EventPublisher() *eventbus.Bus
	Websocket() *Hub
	Bundle() *i18n.Bundle
	GetSupportedLanguages() []string

	Controllers() []Controller
	Middleware() []mux.MiddlewareFunc
	HashFsAssets() *hashfs.FS
	NavItems(localizer *i18n.Localizer) []types.NavigationItem

	RegisterControllers(controllers ...Controller)
	RegisterMiddleware(middleware ...mux.MiddlewareFunc)
	RegisterHashFsAssets(assets *hashfs.FS)
	RegisterLocaleFiles(fs ...*embed.FS)
	RegisterNavItems(items ...types.NavigationItem)
	RegisterServices(services ...interface{})
	Service(service interface{}) interface{}
}
