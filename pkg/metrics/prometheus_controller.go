// Package metrics exposes the console's Prometheus collectors, among them
// the hcm_backend_* call counters and latencies.
package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hcm-console/pkg/application"
)

const DefaultPath = "/debug/prometheus"

type Option func(c *PrometheusController)

// WithGatherer scrapes g instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(c *PrometheusController) {
		c.gatherer = g
	}
}

// WithLogger reports collection errors to logger. A failing collector does
// not fail the scrape.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *PrometheusController) {
		c.logger = logger
	}
}

type PrometheusController struct {
	path     string
	gatherer prometheus.Gatherer
	logger   *logrus.Logger
}

func NewPrometheusController(path string, opts ...Option) application.Controller {
	if path == "" {
		path = DefaultPath
	}
	c := &PrometheusController{path: path, gatherer: prometheus.DefaultGatherer}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *PrometheusController) Key() string {
	return c.path
}

func (c *PrometheusController) Register(r *mux.Router) {
	handlerOpts := promhttp.HandlerOpts{ErrorHandling: promhttp.ContinueOnError}
	if c.logger != nil {
		handlerOpts.ErrorLog = c.logger
	}
	r.Handle(c.path, promhttp.HandlerFor(c.gatherer, handlerOpts)).Methods(http.MethodGet)
}
