package handlers_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/hcm-console/modules/logging/domain/entities/activity"
	"github.com/iota-uz/hcm-console/modules/logging/handlers"
	"github.com/iota-uz/hcm-console/modules/logging/infrastructure/persistence"
	"github.com/iota-uz/hcm-console/modules/logging/services"
	sessions "github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/pkg/backend"
	"github.com/iota-uz/hcm-console/pkg/eventbus"
	"github.com/iota-uz/hcm-console/pkg/itf"
)

func setup(t *testing.T) (*eventbus.Bus, *services.LogsService) {
	t.Helper()
	logger := itf.Logger()
	bus := eventbus.New(logger)
	svc := services.NewLogsService(persistence.NewMemoryRepository(10), nil, 10)
	t.Cleanup(handlers.NewActivityHandler(svc, logger).Subscribe(bus))
	return bus, svc
}

func TestActivityHandler_RecordsOperations(t *testing.T) {
	bus, svc := setup(t)
	ctx := context.Background()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, bus.Publish(ctx, backend.OperationCompleted{
		BrowserID: "b",
		Action:    "assign_role",
		Subject:   "john.doe",
		Method:    "POST",
		Endpoint:  "/roles/assign",
		Result:    backend.OperationResult{Success: true, Message: "Role assigned"},
		At:        at,
	}))
	require.NoError(t, bus.Publish(ctx, backend.OperationCompleted{
		BrowserID: "b",
		Action:    "list_users",
		Method:    "GET",
		Endpoint:  "/users/",
		Result:    backend.OperationResult{Kind: backend.KindBackend, Status: 500, Error: "Internal error"},
		At:        at.Add(time.Second),
	}))

	logs, count, err := svc.List(ctx, "b")
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	assert.Equal(t, "list_users", logs[0].Action)
	assert.Equal(t, activity.StatusError, logs[0].Status)
	assert.Equal(t, "Internal error", logs[0].Message)

	assert.Equal(t, "assign_role", logs[1].Action)
	assert.Equal(t, "john.doe", logs[1].Target)
	assert.Equal(t, activity.StatusSuccess, logs[1].Status)
	assert.Equal(t, "Role assigned", logs[1].Message)
	assert.Equal(t, at, logs[1].CreatedAt)
}

func TestActivityHandler_FallsBackToEndpoint(t *testing.T) {
	bus, svc := setup(t)
	require.NoError(t, bus.Publish(context.Background(), backend.OperationCompleted{
		BrowserID: "b",
		Action:    "list_aors",
		Method:    "GET",
		Endpoint:  "/aor/",
		Result:    backend.OperationResult{Success: true},
	}))
	logs, _, err := svc.List(context.Background(), "b")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "GET /aor/", logs[0].Message)
}

func TestActivityHandler_SkipsAnonymousCalls(t *testing.T) {
	bus, svc := setup(t)
	require.NoError(t, bus.Publish(context.Background(), backend.OperationCompleted{Action: "list_users"}))
	_, count, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestActivityHandler_RecordsSessionEvents(t *testing.T) {
	bus, svc := setup(t)
	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, sessions.Connected{BrowserID: "b", Username: "admin"}))
	require.NoError(t, bus.Publish(ctx, sessions.Disconnected{BrowserID: "b"}))

	logs, _, err := svc.List(ctx, "b")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "disconnect", logs[0].Action)
	assert.Equal(t, "connect", logs[1].Action)
	assert.Equal(t, "admin", logs[1].Target)
}
