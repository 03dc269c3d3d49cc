package server

import (
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"

	"github.com/iota-uz/hcm-console/modules/core/presentation/controllers"
	"github.com/iota-uz/hcm-console/pkg/application"
	"github.com/iota-uz/hcm-console/pkg/configuration"
	"github.com/iota-uz/hcm-console/pkg/constants"
	"github.com/iota-uz/hcm-console/pkg/middleware"
	"github.com/iota-uz/hcm-console/pkg/routing"
	"github.com/iota-uz/hcm-console/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Entrypoint    string
}

func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application
	conf := options.Configuration

	rules, err := routing.LoadAllowlist("", options.Entrypoint)
	if err != nil {
		options.Logger.WithError(err).Warn("Failed to load routing allowlist, using built-in rules")
		rules = routing.DefaultRules
	}
	classifier := routing.NewClassifier(rules)

	loggerOpts := middleware.DefaultLoggerOptions()
	loggerOpts.Entrypoint = options.Entrypoint

	// Core middleware stack with tracing capabilities
	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger, loggerOpts), // This now creates the root span for each request
		middleware.Provide(constants.AppKey, app),

		middleware.TracedMiddleware("cors"),
		middleware.Cors(conf.AllowedOrigins()...),

		middleware.TracedMiddleware("opsGuard"),
		middleware.OpsGuard(conf, classifier),
	}

	// Add rate limiting middleware if enabled
	if conf.RateLimit.Enabled {
		var store limiter.Store

		// Choose storage backend
		switch conf.RateLimit.Storage {
		case "redis":
			store, err = middleware.NewRedisStore(conf.RateLimit.RedisURL)
			if err != nil {
				options.Logger.WithError(err).Warn("Failed to create Redis store for rate limiting, falling back to memory")
				store = middleware.NewMemoryStore()
			}
		default:
			store = middleware.NewMemoryStore()
		}

		middlewares = append(middlewares,
			middleware.TracedMiddleware("rateLimit"),
			middleware.RateLimit(middleware.RateLimitConfig{
				RequestsPerPeriod: conf.RateLimit.GlobalRPS,
				Store:             store,
				Classifier:        classifier,
			}),
		)
	}

	middlewares = append(middlewares,
		middleware.TracedMiddleware("browserID"),
		middleware.BrowserID(middleware.BrowserOptions{
			CookieName: conf.BrowserCookieKey,
			TTL:        conf.BrowserCookieTTL,
			Secure:     conf.GoAppEnvironment == configuration.Production,
		}),
		middleware.ProvideLocalizer(app),
		middleware.WithPageContext(),
		middleware.TracedMiddleware("requestParams"),
		middleware.RequestParams(conf.RealIPHeader),
	)

	app.RegisterMiddleware(middlewares...)

	handlerOpts := controllers.ErrorHandlersOptions{
		Entrypoint: options.Entrypoint,
	}
	serverInstance := server.NewHTTPServer(
		app,
		controllers.NotFound(app, handlerOpts),
		controllers.MethodNotAllowed(handlerOpts),
	)
	return serverInstance, nil
}
