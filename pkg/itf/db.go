package itf

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DatabaseURLEnv names the connection string of a disposable PostgreSQL
// database. Tests that need one are skipped without it.
const DatabaseURLEnv = "TEST_DATABASE_URL"

// Pool connects to the test database and closes the pool on cleanup.
func Pool(tb testing.TB) *pgxpool.Pool {
	tb.Helper()
	dsn := os.Getenv(DatabaseURLEnv)
	if dsn == "" {
		tb.Skipf("%s not set", DatabaseURLEnv)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		tb.Fatal(err)
	}
	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		tb.Fatal(err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		tb.Fatal(err)
	}
	tb.Cleanup(pool.Close)
	return pool
}
