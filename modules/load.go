package modules

import (
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hcm-console/modules/core"
	"github.com/iota-uz/hcm-console/modules/identity"
	"github.com/iota-uz/hcm-console/modules/logging"
	"github.com/iota-uz/hcm-console/modules/session"
	sessions "github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/modules/settings"
	"github.com/iota-uz/hcm-console/pkg/application"
	"github.com/iota-uz/hcm-console/pkg/bulk"
)

type Options struct {
	Sessions *sessions.SessionService
	// Pool keeps the activity log in PostgreSQL; nil keeps it in memory.
	Pool            *pgxpool.Pool
	ActivityLimit   int
	BulkMode        bulk.Mode
	MaxUploadSize   int64
	MaxUploadMemory int64
	Assets          fs.FS
	Production      bool
	Version         string
	Logger          *logrus.Logger
}

// BuiltInModules lists the modules in registration order: later modules
// look up services of the earlier ones.
func BuiltInModules(opts *Options) []application.Module {
	return []application.Module{
		session.NewModule(&session.ModuleOptions{Sessions: opts.Sessions}),
		core.NewModule(&core.ModuleOptions{
			Assets:     opts.Assets,
			Production: opts.Production,
			Version:    opts.Version,
		}),
		settings.NewModule(),
		logging.NewModule(&logging.ModuleOptions{
			Pool:   opts.Pool,
			Limit:  opts.ActivityLimit,
			Logger: opts.Logger,
		}),
		identity.NewModule(&identity.ModuleOptions{
			BulkMode:        opts.BulkMode,
			MaxUploadSize:   opts.MaxUploadSize,
			MaxUploadMemory: opts.MaxUploadMemory,
			Logger:          opts.Logger,
		}),
	}
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
