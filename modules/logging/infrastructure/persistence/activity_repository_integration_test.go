package persistence_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/hcm-console/modules/logging"
	"github.com/iota-uz/hcm-console/modules/logging/domain/entities/activity"
	"github.com/iota-uz/hcm-console/modules/logging/infrastructure/persistence"
	"github.com/iota-uz/hcm-console/pkg/composables"
	"github.com/iota-uz/hcm-console/pkg/itf"
)

func TestActivityRepository_Postgres(t *testing.T) {
	pool := itf.Pool(t)
	ctx := context.Background()
	_, err := logging.Migrate(ctx, os.Getenv(itf.DatabaseURLEnv))
	require.NoError(t, err)
	// a second run finds nothing to apply
	applied, err := logging.Migrate(ctx, os.Getenv(itf.DatabaseURLEnv))
	require.NoError(t, err)
	assert.Empty(t, applied)

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback(context.Background()) })
	ctx = composables.WithTx(ctx, tx)

	browserID := uuid.NewString()
	repo := persistence.NewActivityRepository()
	first := &activity.Activity{BrowserID: browserID, Action: "list_users", Status: activity.StatusSuccess, Message: "ok"}
	second := &activity.Activity{BrowserID: browserID, Action: "assign_role", Target: "john.doe", Status: activity.StatusError, Message: "Role not found"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	list, err := repo.List(ctx, &activity.FindParams{BrowserID: browserID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, "john.doe", list[0].Target)

	count, err := repo.Count(ctx, &activity.FindParams{BrowserID: browserID, Status: activity.StatusError})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	n, err := repo.Clear(ctx, browserID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
