package identity

import (
	"embed"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hcm-console/modules/identity/presentation/controllers"
	"github.com/iota-uz/hcm-console/modules/identity/presentation/templates"
	"github.com/iota-uz/hcm-console/modules/identity/services"
	logservices "github.com/iota-uz/hcm-console/modules/logging/services"
	"github.com/iota-uz/hcm-console/modules/session/presentation/shell"
	sessions "github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/pkg/application"
	"github.com/iota-uz/hcm-console/pkg/bulk"
	"github.com/iota-uz/hcm-console/pkg/navigation"
)

//go:embed presentation/locales/*.json
var localeFiles embed.FS

type ModuleOptions struct {
	// BulkMode defaults to bulk.Lenient.
	BulkMode        bulk.Mode
	MaxUploadSize   int64
	MaxUploadMemory int64
	// RecentActivities is the number of activities on the dashboard.
	RecentActivities int
	Logger           *logrus.Logger
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

// Register needs the session and logging modules loaded first.
func (m *Module) Register(app application.Application) error {
	sessionService := app.Service(sessions.SessionService{}).(*sessions.SessionService)
	logsService := app.Service(logservices.LogsService{}).(*logservices.LogsService)
	client := sessionService.Client()

	app.RegisterLocaleFiles(&localeFiles)
	app.RegisterServices(
		services.NewDashboardService(client, logsService, m.options.RecentActivities, m.options.Logger),
		services.NewUsersService(client),
		services.NewAccessService(client, m.options.BulkMode),
		services.NewUploadService(client, m.options.MaxUploadSize),
	)

	dashboardController := controllers.NewDashboardController(app).(*controllers.DashboardController)
	accessController := controllers.NewAccessController(app).(*controllers.AccessController)
	uploadController := controllers.NewUploadController(app, m.options.MaxUploadMemory).(*controllers.UploadController)
	app.RegisterControllers(
		dashboardController,
		controllers.NewUsersController(app),
		accessController,
		uploadController,
		controllers.NewSearchController(app),
	)

	sessionService.RegisterLoader(navigation.Dashboard, dashboardController.Load)
	sessionService.RegisterLoader(navigation.AORManagement, accessController.LoadAORs)
	sessionService.RegisterLoader(navigation.Upload, uploadController.Load)
	sessionService.OnRefresh(dashboardController.Refresh)

	sh := app.Service(shell.Shell{}).(*shell.Shell)
	sh.RegisterView(navigation.Dashboard, templates.Dashboard)
	sh.RegisterView(navigation.UserDetails, templates.UserDetails)
	sh.RegisterView(navigation.RoleManagement, templates.RoleManagement)
	sh.RegisterView(navigation.SecurityManagement, templates.SecurityManagement)
	sh.RegisterView(navigation.AORManagement, templates.AORManagement)
	sh.RegisterView(navigation.Upload, templates.Upload)
	sh.RegisterView(navigation.Search, templates.Search)
	return nil
}

func (m *Module) Name() string {
	return "identity"
}
