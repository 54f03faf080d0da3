package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listing struct {
	Names []string `json:"names"`
}

func TestRedisListingCache(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping redis test: REDIS_URL not set")
	}

	ctx := context.Background()
	client := NewRedisClient(url)
	defer client.Close()
	require.NoError(t, client.Ping(ctx).Err())

	c := NewRedisListingCache(client, time.Minute)
	userId := uuid.New()

	var got listing
	hit, err := c.Get(ctx, userId, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	gen, err := c.Generation(ctx, userId)
	require.NoError(t, err)
	stored, err := c.Set(ctx, userId, gen, listing{Names: []string{"a", "b"}})
	require.NoError(t, err)
	require.True(t, stored)
	hit, err = c.Get(ctx, userId, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a", "b"}, got.Names)

	require.NoError(t, c.Invalidate(ctx, userId))
	hit, err = c.Get(ctx, userId, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	stored, err = c.Set(ctx, userId, gen, listing{Names: []string{"stale"}})
	require.NoError(t, err)
	assert.False(t, stored)
	hit, err = c.Get(ctx, userId, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryListingCache(t *testing.T) {
	var c ListingCache = NewMemoryListingCache(time.Minute)
	ctx := context.Background()
	userId := uuid.New()

	var got listing
	hit, err := c.Get(ctx, userId, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	stored, err := c.Set(ctx, userId, 0, listing{Names: []string{"a"}})
	require.NoError(t, err)
	require.True(t, stored)
	hit, err = c.Get(ctx, userId, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a"}, got.Names)

	hit, err = c.Get(ctx, uuid.New(), &listing{})
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Invalidate(ctx, userId))
	hit, err = c.Get(ctx, userId, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryListingCache_Expires(t *testing.T) {
	c := NewMemoryListingCache(20 * time.Millisecond)
	ctx := context.Background()
	userId := uuid.New()

	_, err := c.Set(ctx, userId, 0, listing{Names: []string{"a"}})
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		hit, err := c.Get(ctx, userId, &listing{})
		return err == nil && !hit
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryListingCache_InvalidateBeatsEarlierRead(t *testing.T) {
	c := NewMemoryListingCache(time.Minute)
	ctx := context.Background()
	userId := uuid.New()

	before, err := c.Generation(ctx, userId)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, userId))

	stored, err := c.Set(ctx, userId, before, listing{Names: []string{"stale"}})
	require.NoError(t, err)
	assert.False(t, stored)
	hit, err := c.Get(ctx, userId, &listing{})
	require.NoError(t, err)
	assert.False(t, hit)

	after, err := c.Generation(ctx, userId)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
	stored, err = c.Set(ctx, userId, after, listing{Names: []string{"fresh"}})
	require.NoError(t, err)
	assert.True(t, stored)

	other, err := c.Generation(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, other)
}
