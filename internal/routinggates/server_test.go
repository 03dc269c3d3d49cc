package routinggates

import (
	"net/http"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	internalassets "github.com/iota-uz/hcm-console/internal/assets"
	internalserver "github.com/iota-uz/hcm-console/internal/server"
	"github.com/iota-uz/hcm-console/modules"
	sessions "github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/pkg/backend"
	"github.com/iota-uz/hcm-console/pkg/configuration"
	"github.com/iota-uz/hcm-console/pkg/itf"
	"github.com/iota-uz/hcm-console/pkg/metrics"
	pkgserver "github.com/iota-uz/hcm-console/pkg/server"
	"github.com/iota-uz/hcm-console/pkg/storage"
)

const opsToken = "secret"

func productionConfig() *configuration.Configuration {
	return &configuration.Configuration{
		GoAppEnvironment: configuration.Production,
		RealIPHeader:     "X-Real-IP",
		BrowserCookieKey: "hcm_bid",
		BrowserCookieTTL: time.Hour,
		OpsGuard: configuration.OpsGuardOptions{
			Enabled: true,
			Token:   opsToken,
		},
		Prometheus: configuration.PrometheusOptions{
			Enabled: true,
			Path:    "/debug/prometheus",
		},
	}
}

// buildServer wires the same modules and middleware as cmd/server.
func buildServer(t *testing.T) *pkgserver.HTTPServer {
	t.Helper()

	conf := productionConfig()
	logger := itf.Logger()
	app := itf.NewApplication(logger)

	client, err := backend.NewClient("http://backend.invalid", backend.Options{Logger: logger})
	require.NoError(t, err)
	sessionService := sessions.NewSessionService(client, storage.NewMemoryStore(), nil, sessions.Options{Logger: logger})
	t.Cleanup(sessionService.Close)

	require.NoError(t, modules.Load(app, modules.BuiltInModules(&modules.Options{
		Sessions:   sessionService,
		Assets:     internalassets.FS,
		Production: true,
		Version:    "test",
		Logger:     logger,
	})...))
	app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))

	srv, err := internalserver.Default(&internalserver.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Entrypoint:    "server",
	})
	require.NoError(t, err)
	return srv
}

func collectRoutePaths(t *testing.T, router *mux.Router) []string {
	t.Helper()

	var paths []string
	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		p := routePath(route)
		if strings.TrimSpace(p) != "" {
			paths = append(paths, p)
		}
		return nil
	})
	require.NoError(t, err)

	sort.Strings(paths)
	return paths
}

func routePath(route *mux.Route) string {
	if route == nil {
		return ""
	}
	if tmpl, err := route.GetPathTemplate(); err == nil {
		return tmpl
	}
	regexp, err := route.GetPathRegexp()
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(regexp, "^")
}

func hasRoute(paths []string, prefix string) bool {
	for _, p := range paths {
		if p == prefix || strings.HasPrefix(p, strings.TrimSuffix(prefix, "/")+"/") {
			return true
		}
	}
	return false
}

type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Meta    map[string]string `json:"meta"`
}
