package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewSessions()

	_, found, err := s.Get(ctx, "sid", "brandId")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.SetMany(ctx, "sid", map[string]string{"brandId": "b1", "brandName": "Acme"}, time.Hour))
	v, found, err := s.Get(ctx, "sid", "brandName")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Acme", v)

	_, found, _ = s.Get(ctx, "other", "brandId")
	assert.False(t, found)
}

func TestSessionsExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s := NewSessions()
	s.now = func() time.Time { return now }

	require.NoError(t, s.SetMany(ctx, "a", map[string]string{"brandId": "b1"}, time.Minute))
	require.NoError(t, s.SetMany(ctx, "b", map[string]string{"brandId": "b2"}, time.Hour))

	now = now.Add(2 * time.Minute)
	_, found, _ := s.Get(ctx, "a", "brandId")
	assert.False(t, found)

	n, err := s.PruneExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	v, found, _ := s.Get(ctx, "b", "brandId")
	assert.True(t, found)
	assert.Equal(t, "b2", v)
}
