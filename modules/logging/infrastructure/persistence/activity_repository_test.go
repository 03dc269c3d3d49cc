package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/hcm-console/modules/logging/domain/entities/activity"
	"github.com/iota-uz/hcm-console/pkg/composables"
	"github.com/iota-uz/hcm-console/pkg/constants"
)

func TestActivityRepository_List_ScopesByBrowserAndMapsRows(t *testing.T) {
	queryCalled := false
	now := time.Now()

	tx := &stubTx{
		queryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			queryCalled = true
			require.Contains(t, sql, "FROM activity_logs")
			require.Contains(t, sql, "status = $2")
			require.Contains(t, sql, "LIMIT 10 OFFSET 5")
			require.Equal(t, []any{"browser-1", "error"}, args)
			return &stubRows{data: [][]any{
				{uint(7), "browser-1", "assign_role", "john.doe", "error", "Role not found", now},
			}}, nil
		},
	}

	ctx := context.WithValue(context.Background(), constants.TxKey, tx)
	repo := NewActivityRepository()

	result, err := repo.List(ctx, &activity.FindParams{BrowserID: "browser-1", Status: activity.StatusError, Limit: 10, Offset: 5})
	require.NoError(t, err)
	require.True(t, queryCalled)
	require.Len(t, result, 1)
	require.Equal(t, uint(7), result[0].ID)
	require.Equal(t, "john.doe", result[0].Target)
	require.Equal(t, activity.StatusError, result[0].Status)
	require.Equal(t, now, result[0].CreatedAt)
}

func TestActivityRepository_Count_UsesBrowserFilter(t *testing.T) {
	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "activity_logs")
			require.Equal(t, "browser-1", args[0])
			return stubRow{
				scan: func(dest ...any) error {
					require.Len(t, dest, 1)
					*dest[0].(*int64) = 3
					return nil
				},
			}
		},
	}

	ctx := context.WithValue(context.Background(), constants.TxKey, tx)
	count, err := NewActivityRepository().Count(ctx, &activity.FindParams{BrowserID: "browser-1"})
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
}

func TestActivityRepository_Create_FillsTimestamp(t *testing.T) {
	tx := &stubTx{
		queryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			require.Contains(t, sql, "INSERT INTO activity_logs")
			require.Equal(t, "browser-1", args[0])
			require.Equal(t, "success", args[3])
			require.False(t, args[5].(time.Time).IsZero())
			return stubRow{
				scan: func(dest ...any) error {
					*dest[0].(*uint) = 11
					*dest[1].(*time.Time) = args[5].(time.Time)
					return nil
				},
			}
		},
	}

	ctx := context.WithValue(context.Background(), constants.TxKey, tx)
	entry := &activity.Activity{
		BrowserID: "browser-1",
		Action:    "list_users",
		Status:    activity.StatusSuccess,
	}
	require.NoError(t, NewActivityRepository().Create(ctx, entry))
	require.Equal(t, uint(11), entry.ID)
	require.NotZero(t, entry.CreatedAt)
}

func TestActivityRepository_Clear(t *testing.T) {
	tx := &stubTx{
		execFunc: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			require.Contains(t, sql, "DELETE FROM activity_logs")
			require.Equal(t, []any{"browser-1"}, args)
			return pgconn.NewCommandTag("DELETE 4"), nil
		},
	}
	ctx := context.WithValue(context.Background(), constants.TxKey, tx)
	n, err := NewActivityRepository().Clear(ctx, "browser-1")
	require.NoError(t, err)
	require.Equal(t, int64(4), n)
}

func TestActivityRepository_NoDatabase(t *testing.T) {
	_, err := NewActivityRepository().List(context.Background(), &activity.FindParams{BrowserID: "b"})
	require.ErrorIs(t, err, composables.ErrNoPool)
}

type stubTx struct {
	queryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	queryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	execFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (s *stubTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	if s.execFunc == nil {
		return pgconn.CommandTag{}, nil
	}
	return s.execFunc(ctx, sql, arguments...)
}

func (s *stubTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if s.queryFunc == nil {
		return nil, errors.New("query not implemented")
	}
	return s.queryFunc(ctx, sql, args...)
}

func (s *stubTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if s.queryRowFunc == nil {
		return stubRow{scan: func(dest ...any) error { return errors.New("query row not implemented") }}
	}
	return s.queryRowFunc(ctx, sql, args...)
}

type stubRows struct {
	data [][]any
	idx  int
	err  error
}

func (r *stubRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.data) {
		return errors.New("no current row to scan")
	}
	row := r.data[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("destination length %d does not match row length %d", len(dest), len(row))
	}
	for i, target := range dest {
		switch v := target.(type) {
		case *uint:
			*v = row[i].(uint)
		case *string:
			*v = row[i].(string)
		case *time.Time:
			*v = row[i].(time.Time)
		default:
			return fmt.Errorf("unsupported scan target %T", target)
		}
	}
	return nil
}

func (r *stubRows) Values() ([]any, error) {
	if r.idx == 0 || r.idx > len(r.data) {
		return nil, errors.New("no current row")
	}
	return r.data[r.idx-1], nil
}

func (r *stubRows) RawValues() [][]byte { return nil }
func (r *stubRows) Err() error          { return r.err }
func (r *stubRows) Close()              {}
func (r *stubRows) CommandTag() pgconn.CommandTag {
	return pgconn.CommandTag{}
}
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	if r.scan == nil {
		return errors.New("scan not implemented")
	}
	return r.scan(dest...)
}
