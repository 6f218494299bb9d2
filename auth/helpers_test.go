package auth_test

import (
	"database/sql"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/tongpin/user-service/auth"
)

const sqliteCreateUsers = `CREATE TABLE users (
    id TEXT NOT NULL PRIMARY KEY,
    phone TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    nickname TEXT NOT NULL,
    bio TEXT DEFAULT '',
    age INTEGER,
    city TEXT DEFAULT '',
    avatar TEXT DEFAULT '',
    status TEXT NOT NULL DEFAULT 'active',
    login_attempts INTEGER DEFAULT 0,
    login_attempt_at TIMESTAMP NULL,
    loggedin_at TIMESTAMP NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    deleted_at TIMESTAMP NULL
);`

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = db.Exec(sqliteCreateUsers)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func setupTestRegistry(t *testing.T) (*miniredis.Miniredis, *auth.RedisSessionRegistry) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
	})

	return mr, auth.NewRedisSessionRegistry(client)
}

type testConfig struct {
	accessKey       string
	refreshKey      string
	tokenExpiration int
}

func newTestConfig() *testConfig {
	return &testConfig{
		accessKey:       "test-access-secret",
		refreshKey:      "test-refresh-secret",
		tokenExpiration: 168,
	}
}

func (c *testConfig) GetAccessSigningKey() string  { return c.accessKey }
func (c *testConfig) GetRefreshSigningKey() string { return c.refreshKey }
func (c *testConfig) GetTokenExpiration() int      { return c.tokenExpiration }
func (c *testConfig) GetContextKey() string        { return "user" }
func (c *testConfig) GetTokenLookup() string       { return "header:Authorization" }
func (c *testConfig) GetAuthScheme() string        { return "Bearer" }
func (c *testConfig) GetIssuer() string            { return "user-service-test" }

func setupTestAuther(t *testing.T) (*auth.Auther, auth.RepositoryManager, *miniredis.Miniredis) {
	t.Helper()

	db := setupTestDB(t)
	repo := auth.NewRepositoryManager(db)
	mr, sessions := setupTestRegistry(t)

	return auth.NewAuthenticator(repo, sessions, newTestConfig()), repo, mr
}
