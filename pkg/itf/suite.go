// Package itf wires modules into an application and drives their
// controllers over HTTP in tests.
package itf

import (
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hcm-console/pkg/application"
	"github.com/iota-uz/hcm-console/pkg/eventbus"
	"github.com/iota-uz/hcm-console/pkg/middleware"
)

const (
	DefaultBrowserID = "itf-browser"
	BrowserCookie    = "hcm_bid"
)

// Suite is an application with its modules loaded and a router that mounts
// the same per-request middleware as the server.
type Suite struct {
	tb        testing.TB
	app       application.Application
	logger    *logrus.Logger
	browserID string
	language  string
	router    *mux.Router
	built     bool
}

func Logger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func NewApplication(logger *logrus.Logger) application.Application {
	return application.New(&application.ApplicationOptions{
		EventBus: eventbus.New(logger),
		Huber:    application.NewHub(&application.HubOptions{Logger: logger}),
		Bundle:   application.LoadBundle(),
	})
}

// HTTP loads modules into a fresh application.
func HTTP(tb testing.TB, modules ...application.Module) *Suite {
	tb.Helper()
	return HTTPWith(tb, NewApplication(Logger()), modules...)
}

// HTTPWith loads modules into app, for tests that wire services to the
// application's event bus before the modules register.
func HTTPWith(tb testing.TB, app application.Application, modules ...application.Module) *Suite {
	tb.Helper()
	logger := Logger()
	for _, m := range modules {
		if err := m.Register(app); err != nil {
			tb.Fatalf("register module %s: %v", m.Name(), err)
		}
	}
	return &Suite{
		tb:        tb,
		app:       app,
		logger:    logger,
		browserID: DefaultBrowserID,
		language:  "en",
	}
}

func (s *Suite) App() application.Application {
	return s.app
}

// AsBrowser makes every following request carry browserID.
func (s *Suite) AsBrowser(browserID string) *Suite {
	s.browserID = browserID
	return s
}

func (s *Suite) WithLanguage(code string) *Suite {
	s.language = code
	return s
}

func (s *Suite) BrowserID() string {
	return s.browserID
}

// Register adds controllers next to those registered by the modules.
func (s *Suite) Register(controllers ...application.Controller) *Suite {
	s.app.RegisterControllers(controllers...)
	s.built = false
	return s
}

func (s *Suite) handler() http.Handler {
	if s.built {
		return s.router
	}
	r := mux.NewRouter()
	r.Use(
		middleware.BrowserID(middleware.BrowserOptions{CookieName: BrowserCookie}),
		middleware.ProvideLocalizer(s.app),
		middleware.WithPageContext(),
		middleware.RequestParams(""),
	)
	r.Use(s.app.Middleware()...)
	for _, c := range s.app.Controllers() {
		c.Register(r)
	}
	s.router = r
	s.built = true
	return r
}
