package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	sessions "github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/pkg/application"
	"github.com/iota-uz/hcm-console/pkg/httpapi"
	"github.com/iota-uz/hcm-console/pkg/storage"
)

const (
	StatusUp   = "up"
	StatusDown = "down"

	// healthBrowserID owns no records; reading from it only proves the store
	// answers.
	healthBrowserID = "health"
	checkTimeout    = 2 * time.Second
)

type HealthResponse struct {
	Status     string            `json:"status"`
	Version    string            `json:"version,omitempty"`
	Uptime     string            `json:"uptime"`
	Workspaces int               `json:"workspaces"`
	Checks     map[string]string `json:"checks"`
}

type HealthController struct {
	sessions *sessions.SessionService
	version  string
	started  time.Time
}

func NewHealthController(sessionService *sessions.SessionService, version string) application.Controller {
	return &HealthController{
		sessions: sessionService,
		version:  version,
		started:  time.Now(),
	}
}

func (c *HealthController) Key() string {
	return "/health"
}

func (c *HealthController) Register(r *mux.Router) {
	r.HandleFunc("/health", c.Get).Methods(http.MethodGet)
}

// Get reports 503 when the record store does not answer. The backend is
// not called since it needs tenant credentials.
func (c *HealthController) Get(w http.ResponseWriter, r *http.Request) {
	resp := &HealthResponse{
		Status:     StatusUp,
		Version:    c.version,
		Uptime:     time.Since(c.started).Round(time.Second).String(),
		Workspaces: c.sessions.Workspaces(),
		Checks:     map[string]string{"records": StatusUp},
	}
	status := http.StatusOK
	if err := c.checkStore(r.Context()); err != nil {
		resp.Status = StatusDown
		resp.Checks["records"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	_ = httpapi.WriteJSON(w, status, resp)
}

func (c *HealthController) checkStore(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	_, err := c.sessions.Store().Get(ctx, healthBrowserID, storage.SettingsKey)
	if err == nil || errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}
