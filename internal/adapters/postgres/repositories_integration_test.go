//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("BRANDSCOPE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("BRANDSCOPE_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	require.NoError(t, Migrate(ctx, url))
	db, err := Connect(ctx, url)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func TestSessionsAgainstPostgres(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	sid := uuid.NewString()

	require.NoError(t, db.SetMany(ctx, sid, map[string]string{"brandId": "b1"}, time.Hour))
	require.NoError(t, db.SetMany(ctx, sid, map[string]string{"brandName": "Acme"}, time.Hour))

	v, ok, err := db.Get(ctx, sid, "brandId")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b1", v)
	v, ok, err = db.Get(ctx, sid, "brandName")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Acme", v)

	_, ok, err = db.Get(ctx, sid, "brandWebsite")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExpiredSessionIsReplacedNotMerged(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	sid := uuid.NewString()

	require.NoError(t, db.SetMany(ctx, sid, map[string]string{"brandId": "old"}, -time.Minute))
	_, ok, err := db.Get(ctx, sid, "brandId")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.SetMany(ctx, sid, map[string]string{"brandName": "Acme"}, time.Hour))
	_, ok, err = db.Get(ctx, sid, "brandId")
	require.NoError(t, err)
	assert.False(t, ok, "expired keys must not survive a new write")

	expired := uuid.NewString()
	require.NoError(t, db.SetMany(ctx, expired, map[string]string{"brandId": "x"}, -time.Minute))
	n, err := db.PruneExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))
}
