// Package shell renders screens inside the application layout and provides
// the workspace of a request to controllers.
package shell

import (
	"context"
	"net/http"
	"sync"

	"github.com/a-h/templ"
	"github.com/gorilla/mux"

	"github.com/iota-uz/hcm-console/components/base"
	"github.com/iota-uz/hcm-console/components/layout"
	"github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/pkg/application"
	"github.com/iota-uz/hcm-console/pkg/composables"
	"github.com/iota-uz/hcm-console/pkg/navigation"
	"github.com/iota-uz/hcm-console/pkg/types"
)

// View is what a screen renderer receives: the navigation state plus the
// outcome of the operation that produced this page, if any.
type View struct {
	Screen navigation.Definition
	Tab    string
	Data   any
	Err    error
	// Result is rendered below the active tab, e.g. a backend response.
	Result templ.Component
	// Form carries the submitted values so forms can be refilled.
	Form map[string]string
}

func (v *View) Value(name string) string {
	if v == nil || v.Form == nil {
		return ""
	}
	return v.Form[name]
}

type Renderer func(v *View) templ.Component

// AppearanceFunc resolves the layout settings of a browser.
type AppearanceFunc func(ctx context.Context, browserID string) types.Appearance

type Shell struct {
	app      application.Application
	sessions *services.SessionService

	mu         sync.RWMutex
	views      map[navigation.Screen]Renderer
	appearance AppearanceFunc
}

func New(app application.Application, sessions *services.SessionService) *Shell {
	return &Shell{
		app:      app,
		sessions: sessions,
		views:    make(map[navigation.Screen]Renderer),
	}
}

func (s *Shell) Sessions() *services.SessionService {
	return s.sessions
}

func (s *Shell) RegisterView(screen navigation.Screen, r Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[screen] = r
}

func (s *Shell) SetAppearance(fn AppearanceFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appearance = fn
}

func (s *Shell) renderer(screen navigation.Screen) (Renderer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.views[screen]
	return r, ok
}

// WithWorkspace resolves the workspace of the request's browser.
func (s *Shell) WithWorkspace() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			browserID, err := composables.UseBrowserID(r.Context())
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			ws := s.sessions.Workspace(r.Context(), browserID)
			ctx := services.WithWorkspace(r.Context(), ws)
			ctx = composables.WithAppearance(ctx, s.appearanceOf(ctx, browserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *Shell) appearanceOf(ctx context.Context, browserID string) types.Appearance {
	s.mu.RLock()
	fn := s.appearance
	s.mu.RUnlock()
	if fn == nil {
		return types.Appearance{Theme: "light"}
	}
	return fn(ctx, browserID)
}

// Middleware is the stack every console controller mounts.
func (s *Shell) Middleware() []mux.MiddlewareFunc {
	return []mux.MiddlewareFunc{s.WithWorkspace()}
}

func (s *Shell) props(r *http.Request, ws *services.Workspace, title, screen string) layout.Props {
	p := layout.Props{
		Title:         title,
		Screen:        screen,
		Connected:     ws.Connected(),
		Notifications: ws.Notifications().Active(),
		Appearance:    composables.UseAppearance(r.Context()),
		Assets:        s.app.HashFsAssets(),
	}
	if cfg := ws.Config(); cfg != nil {
		p.Username = cfg.Username
		p.InstanceURL = cfg.InstanceURL
	}
	p.NavItems = s.app.NavItems(composables.UsePageCtx(r.Context()).GetLocalizer())
	return p
}

// RenderPage writes content inside the layout.
func (s *Shell) RenderPage(w http.ResponseWriter, r *http.Request, ws *services.Workspace, title string, content templ.Component) {
	templ.Handler(layout.Layout(s.props(r, ws, title, ""), content)).ServeHTTP(w, r)
}

// Render writes the screen of v inside the layout, with its tab bar.
func (s *Shell) Render(w http.ResponseWriter, r *http.Request, ws *services.Workspace, v *View) {
	content := s.Screen(v)
	templ.Handler(layout.Layout(s.props(r, ws, v.Screen.TitleKey(), string(v.Screen.Screen)), content)).ServeHTTP(w, r)
}

// Screen renders v without the layout.
func (s *Shell) Screen(v *View) templ.Component {
	var body templ.Component
	if render, ok := s.renderer(v.Screen.Screen); ok {
		body = render(v)
	} else {
		body = base.Empty("Common.NothingToShow")
	}
	return base.Group(tabs(v), body)
}

func tabs(v *View) templ.Component {
	if len(v.Screen.Tabs) == 0 {
		return nil
	}
	items := make([]base.Tab, 0, len(v.Screen.Tabs))
	for _, t := range v.Screen.Tabs {
		items = append(items, base.Tab{
			Key:    t,
			Label:  "Screens." + string(v.Screen.Screen) + ".Tabs." + t,
			Href:   "/screens/" + string(v.Screen.Screen) + "?tab=" + t,
			Active: t == v.Tab,
		})
	}
	return base.Tabs(items)
}

// ViewOf builds the view of screen for ws with tab selected, reusing the
// data of the last navigation when it was to the same screen.
func ViewOf(ws *services.Workspace, screen navigation.Screen, tab string) *View {
	def, err := navigation.Lookup(string(screen))
	if err != nil {
		return &View{Err: err}
	}
	if tab != "" && def.HasTab(tab) {
		_ = ws.Dispatcher().SwitchTab(string(screen), tab)
	}
	v := &View{Screen: def, Tab: ws.Dispatcher().Tab(screen)}
	if nav := ws.View(screen); nav != nil {
		v.Data = nav.Data
		v.Err = nav.Err
	}
	return v
}
