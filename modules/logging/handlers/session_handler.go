package handlers

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hcm-console/modules/logging/domain/entities/activity"
	"github.com/iota-uz/hcm-console/modules/logging/services"
	sessions "github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/pkg/backend"
	"github.com/iota-uz/hcm-console/pkg/eventbus"
)

// ActivityHandler turns pipeline and session events into activity log
// entries.
type ActivityHandler struct {
	service *services.LogsService
	logger  logrus.FieldLogger
}

func NewActivityHandler(service *services.LogsService, logger logrus.FieldLogger) *ActivityHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ActivityHandler{service: service, logger: logger.WithField("component", "activity-log")}
}

// Subscribe registers the handler on bus and returns a func that removes it.
func (h *ActivityHandler) Subscribe(bus *eventbus.Bus) func() {
	unsubs := []func(){
		eventbus.Subscribe(bus, h.OnOperation),
		eventbus.Subscribe(bus, h.OnConnected),
		eventbus.Subscribe(bus, h.OnDisconnected),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func (h *ActivityHandler) OnOperation(ctx context.Context, e backend.OperationCompleted) {
	if e.BrowserID == "" {
		return
	}
	entry := &activity.Activity{
		BrowserID: e.BrowserID,
		Action:    e.Action,
		Target:    e.Subject,
		Status:    activity.StatusSuccess,
		Message:   e.Result.Message,
		CreatedAt: e.At,
	}
	if !e.Result.Success {
		entry.Status = activity.StatusError
		entry.Message = e.Result.Error
	}
	if entry.Message == "" {
		entry.Message = strings.TrimSpace(e.Method + " " + e.Endpoint)
	}
	h.record(ctx, entry)
}

func (h *ActivityHandler) OnConnected(ctx context.Context, e sessions.Connected) {
	h.record(ctx, &activity.Activity{
		BrowserID: e.BrowserID,
		Action:    "connect",
		Target:    e.Username,
		Status:    activity.StatusSuccess,
	})
}

func (h *ActivityHandler) OnDisconnected(ctx context.Context, e sessions.Disconnected) {
	h.record(ctx, &activity.Activity{
		BrowserID: e.BrowserID,
		Action:    "disconnect",
		Status:    activity.StatusSuccess,
	})
}

func (h *ActivityHandler) record(ctx context.Context, entry *activity.Activity) {
	if err := h.service.Record(ctx, entry); err != nil {
		h.logger.WithError(err).
			WithField("browser_id", entry.BrowserID).
			WithField("action", entry.Action).
			Warn("failed to persist activity")
	}
}
