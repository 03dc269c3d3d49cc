package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/hcm-console/modules/identity/services"
	sessions "github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/pkg/backend"
	"github.com/iota-uz/hcm-console/pkg/bulk"
	"github.com/iota-uz/hcm-console/pkg/configuration"
	"github.com/iota-uz/hcm-console/pkg/eventbus"
	"github.com/iota-uz/hcm-console/pkg/logging"
	"github.com/iota-uz/hcm-console/pkg/storage"
)

// browserID owns the CLI's records in the store, the way a browser cookie
// does for the web console.
const browserID = "cli"

type rootOptions struct {
	backendURL string
	storeDir   string
	timeout    time.Duration
	bulkMode   string
	verbose    bool
	// password is never a flag default so it stays out of --help.
	password string
}

// runtime builds the services on first use so commands that never talk to
// the backend do not touch the store.
type runtime struct {
	// defaults seed the persistent flags.
	defaults rootOptions
	opts     rootOptions

	store    storage.Store
	sessions *sessions.SessionService
	users    *services.UsersService
	access   *services.AccessService
	uploads  *services.UploadService
}

func defaultStoreDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".hcmctl")
	}
	return filepath.Join(dir, "hcmctl")
}

// defaultsFrom takes the flag defaults from the environment configuration,
// .env files included.
func defaultsFrom(conf *configuration.Configuration) rootOptions {
	dir := strings.TrimSpace(conf.CLI.StoreDir)
	if dir == "" {
		dir = defaultStoreDir()
	}
	return rootOptions{
		backendURL: conf.Backend.URL,
		storeDir:   dir,
		timeout:    conf.Backend.Timeout,
		bulkMode:   conf.Session.BulkMode,
		password:   conf.CLI.Password,
	}
}

func (rt *runtime) init() error {
	if rt.sessions != nil {
		return nil
	}
	mode, err := bulk.ParseMode(rt.opts.bulkMode)
	if err != nil {
		return withCode(exitUsage, err)
	}
	level := logrus.WarnLevel
	if rt.opts.verbose {
		level = logrus.DebugLevel
	}
	logger := logging.ConsoleLogger(level)

	client, err := backend.NewClient(rt.opts.backendURL, backend.Options{
		Timeout: rt.opts.timeout,
		Logger:  logger,
	})
	if err != nil {
		return withCode(exitUsage, errors.Wrap(err, "invalid --backend-url"))
	}
	store, err := storage.NewFileStore(rt.opts.storeDir)
	if err != nil {
		return withCode(exitUsage, errors.Wrap(err, "open record store"))
	}
	rt.store = store
	rt.sessions = sessions.NewSessionService(client, store, eventbus.New(logger), sessions.Options{Logger: logger})
	rt.users = services.NewUsersService(client)
	rt.access = services.NewAccessService(client, mode)
	rt.uploads = services.NewUploadService(client, 0)
	return nil
}

// config returns the stored credentials, or nil so that the service answers
// with "not connected" without sending anything.
func (rt *runtime) config(ctx context.Context) (*backend.ConnectionConfig, error) {
	if err := rt.init(); err != nil {
		return nil, err
	}
	cfg, _ := rt.sessions.Restore(ctx, browserID)
	return cfg, nil
}

func (rt *runtime) close() {
	if rt.sessions != nil {
		rt.sessions.Close()
	}
	if rt.store != nil {
		_ = rt.store.Close()
	}
}

func newRootCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hcmctl",
		Short:         "Oracle Fusion HCM identity administration from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return withCode(exitUsage, err)
	})

	flags := cmd.PersistentFlags()
	flags.StringVar(&rt.opts.backendURL, "backend-url", rt.defaults.backendURL, "Base URL of the identity backend (BACKEND_URL)")
	flags.StringVar(&rt.opts.storeDir, "store-dir", rt.defaults.storeDir, "Directory holding the saved connection (HCMCTL_STORE_DIR)")
	flags.DurationVar(&rt.opts.timeout, "timeout", rt.defaults.timeout, "Timeout of one backend call, 0 for none (BACKEND_TIMEOUT)")
	flags.StringVar(&rt.opts.bulkMode, "bulk-mode", rt.defaults.bulkMode, "Handling of invalid bulk rows: lenient or strict (BULK_MODE)")
	flags.BoolVarP(&rt.opts.verbose, "verbose", "v", false, "Log backend calls")

	cmd.AddCommand(
		newConnectCmd(rt),
		newDisconnectCmd(rt),
		newStatusCmd(rt),
		newUsersCmd(rt),
		newRolesCmd(rt),
		newSecurityCmd(rt),
		newAORCmd(rt),
		newPasswordCmd(rt),
		newSearchCmd(rt),
		newUploadCmd(rt),
		newTemplateCmd(),
	)
	return cmd
}

// usageArgs wraps an argument validator so wrong arity exits with the
// usage code.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return withCode(exitUsage, fn(cmd, args))
	}
}

// run executes the command line and returns the process exit code.
func run(rt *runtime, args []string, stdout, stderr io.Writer) int {
	defer rt.close()
	cmd := newRootCmd(rt)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.Execute()
	if err == nil {
		return exitOK
	}
	code := exitCode(err)
	if code == 1 {
		// cobra reports unknown commands as plain errors
		code = exitUsage
	}
	_, _ = fmt.Fprintln(stderr, "Error:", err.Error())
	return code
}

// loadConfiguration reports an invalid environment as an error instead of
// the panic of configuration.Use.
func loadConfiguration() (conf *configuration.Configuration, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("invalid configuration: %v", r)
		}
	}()
	return configuration.Use(), nil
}

func Execute() {
	conf, err := loadConfiguration()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(exitUsage)
	}
	code := run(&runtime{defaults: defaultsFrom(conf)}, os.Args[1:], os.Stdout, os.Stderr)
	conf.Unload()
	os.Exit(code)
}
