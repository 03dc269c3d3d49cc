package core

import (
	"embed"
	"io/fs"

	"github.com/benbjohnson/hashfs"

	"github.com/iota-uz/hcm-console/modules/core/presentation/controllers"
	sessions "github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/pkg/application"
)

//go:embed presentation/locales/*.json
var LocaleFiles embed.FS

type ModuleOptions struct {
	// Assets is served under /static.
	Assets fs.FS
	// Production enables long-lived caching of static assets.
	Production bool
	Version    string
}

func NewModule(opts *ModuleOptions) application.Module {
	if opts == nil {
		opts = &ModuleOptions{}
	}
	return &Module{options: opts}
}

type Module struct {
	options *ModuleOptions
}

// Register needs the session module loaded first.
func (m *Module) Register(app application.Application) error {
	sessionService := app.Service(sessions.SessionService{}).(*sessions.SessionService)

	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterControllers(
		controllers.NewHealthController(sessionService, m.options.Version),
	)
	if m.options.Assets != nil {
		assets := hashfs.NewFS(m.options.Assets)
		app.RegisterHashFsAssets(assets)
		app.RegisterControllers(controllers.NewStaticFilesController(assets, m.options.Production))
	}
	return nil
}

func (m *Module) Name() string {
	return "core"
}
