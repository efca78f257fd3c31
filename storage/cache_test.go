package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate_browser/models"
)

// countingStore records how often the backend is reached
type countingStore struct {
	*StaticStore
	lists int
	gets  int
}

func (c *countingStore) ListProperties(ctx context.Context) ([]models.Property, error) {
	c.lists++
	return c.StaticStore.ListProperties(ctx)
}

func (c *countingStore) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	c.gets++
	return c.StaticStore.GetProperty(ctx, id)
}

func newTestCache(t *testing.T) (*CachedPropertyStore, *countingStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	backend := &countingStore{StaticStore: NewStaticStore([]models.Property{*sampleProperty("1", 100), *sampleProperty("2", 200)})}
	client := NewRedisClient(mr.Addr(), "")
	t.Cleanup(func() { client.Close() })
	return NewCachedPropertyStore(backend, client, time.Minute), backend, mr
}

func TestCachedPropertyStoreServesFromCache(t *testing.T) {
	ctx := context.Background()
	c, backend, mr := newTestCache(t)

	first, err := c.ListProperties(ctx)
	require.NoError(t, err)
	second, err := c.ListProperties(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, backend.lists)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists(cacheListKey))

	p, err := c.GetProperty(ctx, "2")
	require.NoError(t, err)
	require.NotNil(t, p)
	_, err = c.GetProperty(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.gets)

	missing, err := c.GetProperty(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.False(t, mr.Exists(cachePropertyKey("nope")))
}

func TestCachedPropertyStoreInvalidatesOnWrite(t *testing.T) {
	ctx := context.Background()
	c, backend, _ := newTestCache(t)

	_, err := c.ListProperties(ctx)
	require.NoError(t, err)
	_, err = c.GetProperty(ctx, "1")
	require.NoError(t, err)

	require.NoError(t, c.UpsertProperty(ctx, sampleProperty("1", 150)))

	p, err := c.GetProperty(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, int64(150), p.Price)

	require.NoError(t, c.DeleteProperty(ctx, "2"))
	all, err := c.ListProperties(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, 2, backend.lists)
	assert.Equal(t, 2, backend.gets)
}

func TestCachedPropertyStoreInvalidate(t *testing.T) {
	ctx := context.Background()
	c, backend, mr := newTestCache(t)

	_, _ = c.ListProperties(ctx)
	_, _ = c.GetProperty(ctx, "1")
	mr.Set("unrelated", "keep")

	require.NoError(t, c.Invalidate(ctx))
	assert.False(t, mr.Exists(cacheListKey))
	assert.False(t, mr.Exists(cachePropertyKey("1")))
	assert.True(t, mr.Exists("unrelated"))

	_, _ = c.ListProperties(ctx)
	assert.Equal(t, 2, backend.lists)
}

func TestCachedPropertyStoreFallsThroughWhenRedisDown(t *testing.T) {
	ctx := context.Background()
	c, backend, mr := newTestCache(t)
	mr.Close()

	all, err := c.ListProperties(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 1, backend.lists)
}
