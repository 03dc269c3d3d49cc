package logging

import (
	"embed"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hcm-console/modules/logging/domain/entities/activity"
	"github.com/iota-uz/hcm-console/modules/logging/handlers"
	"github.com/iota-uz/hcm-console/modules/logging/infrastructure/persistence"
	"github.com/iota-uz/hcm-console/modules/logging/presentation/controllers"
	"github.com/iota-uz/hcm-console/modules/logging/presentation/templates"
	"github.com/iota-uz/hcm-console/modules/logging/services"
	"github.com/iota-uz/hcm-console/modules/session/presentation/shell"
	sessions "github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/pkg/application"
	"github.com/iota-uz/hcm-console/pkg/navigation"
)

//go:embed presentation/locales/*.json
var localeFiles embed.FS

type ModuleOptions struct {
	// Pool selects the activity_logs table; nil keeps the log in memory.
	Pool   *pgxpool.Pool
	Limit  int
	Logger *logrus.Logger
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
	var repo activity.Repository
	if m.options.Pool != nil {
		repo = persistence.NewActivityRepository()
	} else {
		repo = persistence.NewMemoryRepository(m.options.Limit)
	}
	logsService := services.NewLogsService(repo, m.options.Pool, m.options.Limit)

	app.RegisterLocaleFiles(&localeFiles)
	app.RegisterServices(logsService)

	logsController := controllers.NewLogsController(app).(*controllers.LogsController)
	app.RegisterControllers(logsController)

	app.Service(sessions.SessionService{}).(*sessions.SessionService).
		RegisterLoader(navigation.Logs, logsController.Load)
	app.Service(shell.Shell{}).(*shell.Shell).
		RegisterView(navigation.Logs, templates.Logs)

	logger := m.options.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	handlers.NewActivityHandler(logsService, logger).Subscribe(app.EventPublisher())
	return nil
}

func (m *Module) Name() string {
	return "logging"
}
