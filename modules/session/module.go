package session

import (
	"embed"

	"github.com/iota-uz/hcm-console/modules/session/presentation/controllers"
	"github.com/iota-uz/hcm-console/modules/session/presentation/shell"
	"github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/pkg/application"
)

//go:embed presentation/locales/*.json
var localeFiles embed.FS

type ModuleOptions struct {
	Sessions *services.SessionService
}

func NewModule(opts *ModuleOptions) application.Module {
	return &Module{options: opts}
}

type Module struct {
	options *ModuleOptions
}

// Register must run before every module that renders screens.
func (m *Module) Register(app application.Application) error {
	app.RegisterLocaleFiles(&localeFiles)
	app.RegisterServices(
		m.options.Sessions,
		shell.New(app, m.options.Sessions),
	)
	app.RegisterControllers(
		controllers.NewSessionController(app),
	)
	app.RegisterNavItems(NavItems...)
	return nil
}

func (m *Module) Name() string {
	return "session"
}
