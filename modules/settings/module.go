package settings

import (
	"embed"

	"github.com/iota-uz/hcm-console/modules/session/presentation/shell"
	sessions "github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/modules/settings/presentation/controllers"
	"github.com/iota-uz/hcm-console/modules/settings/services"
	"github.com/iota-uz/hcm-console/pkg/application"
	"github.com/iota-uz/hcm-console/pkg/eventbus"
)

//go:embed presentation/locales/*.toml
var LocaleFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

// Register needs the session module loaded first.
func (m *Module) Register(app application.Application) error {
	sessionService := app.Service(sessions.SessionService{}).(*sessions.SessionService)
	settingsService := services.NewSettingsService(sessionService, app.EventPublisher(), nil)

	app.RegisterLocaleFiles(&LocaleFiles)
	app.RegisterServices(settingsService)
	app.RegisterControllers(
		controllers.NewSettingsController(app),
	)
	app.Service(shell.Shell{}).(*shell.Shell).SetAppearance(settingsService.Appearance)
	eventbus.Subscribe(app.EventPublisher(), settingsService.OnConnected)
	return nil
}

func (m *Module) Name() string {
	return "settings"
}
