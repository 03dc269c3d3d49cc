package controllers

import (
	"net/http"
	"strings"

	"github.com/iota-uz/hcm-console/components/layout"
	"github.com/iota-uz/hcm-console/modules/core/presentation/templates"
	"github.com/iota-uz/hcm-console/pkg/application"
	"github.com/iota-uz/hcm-console/pkg/composables"
	"github.com/iota-uz/hcm-console/pkg/httpapi"
	"github.com/iota-uz/hcm-console/pkg/middleware"
	"github.com/iota-uz/hcm-console/pkg/routing"
)

type ErrorHandlersOptions struct {
	Entrypoint    string
	AllowlistPath string
}

func classifier(opts []ErrorHandlersOptions) *routing.Classifier {
	var resolved ErrorHandlersOptions
	if len(opts) > 0 {
		resolved = opts[0]
	}
	rules, err := routing.LoadAllowlist(resolved.AllowlistPath, resolved.Entrypoint)
	if err != nil {
		rules = routing.DefaultRules
	}
	return routing.NewClassifier(rules)
}

func notFoundPage(app application.Application) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		props := layout.Props{
			Title:    "Errors.NotFound.Title",
			NavItems: app.NavItems(composables.UsePageCtx(r.Context()).GetLocalizer()),
			Assets:   app.HashFsAssets(),
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		if err := layout.Layout(props, templates.NotFoundContent()).Render(r.Context(), w); err != nil {
			composables.UseLogger(r.Context()).WithError(err).Error("failed to render not found page")
		}
	}
}

// NotFound renders the not found page for screens and a JSON envelope for
// every other route class.
func NotFound(app application.Application, opts ...ErrorHandlersOptions) http.HandlerFunc {
	routes := classifier(opts)
	page := middleware.ProvideLocalizer(app)(middleware.WithPageContext()(notFoundPage(app)))

	return func(w http.ResponseWriter, r *http.Request) {
		if !routes.Rendered(r.URL.Path) {
			meta := map[string]string{"path": r.URL.Path}
			if requestID := requestIDFromResponse(w, r); requestID != "" {
				meta["request_id"] = requestID
			}
			_ = httpapi.WriteError(w, http.StatusNotFound, httpapi.CodeNotFound, "not found", meta)
			return
		}
		page.ServeHTTP(w, r)
	}
}

func MethodNotAllowed(opts ...ErrorHandlersOptions) http.HandlerFunc {
	routes := classifier(opts)

	return func(w http.ResponseWriter, r *http.Request) {
		if !routes.Rendered(r.URL.Path) {
			meta := map[string]string{
				"method": r.Method,
				"path":   r.URL.Path,
			}
			if requestID := requestIDFromResponse(w, r); requestID != "" {
				meta["request_id"] = requestID
			}
			_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, httpapi.CodeMethodNotAllowed, "method not allowed", meta)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func requestIDFromResponse(w http.ResponseWriter, r *http.Request) string {
	if w != nil {
		if requestID := strings.TrimSpace(w.Header().Get("X-Request-ID")); requestID != "" {
			return requestID
		}
	}
	if r != nil {
		return strings.TrimSpace(r.Header.Get("X-Request-ID"))
	}
	return ""
}
