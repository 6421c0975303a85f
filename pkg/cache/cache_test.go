package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const location = "http://localhost:8080/axis/services/DuckService?wsdl"

func newCache(t *testing.T, duration time.Duration) *Cache {
	t.Helper()

	c, err := New(filepath.Join(t.TempDir(), "cache.db"), duration)
	require.NoError(t, err)

	return c
}

func age(t *testing.T, c *Cache, location string, d time.Duration) {
	t.Helper()

	result := c.db.Model(&DocumentModel{}).Where("location = ?", location).UpdateColumn("updated_at", time.Now().Add(-d))
	require.NoError(t, result.Error)
}

func TestCacheGetPut(t *testing.T) {
	ctx := context.Background()
	c := newCache(t, time.Hour)

	_, ok, err := c.Get(ctx, location)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, location, []byte("<definitions/>"), map[string]string{"Content-Type": "text/xml"}))

	data, ok, err := c.Get(ctx, location)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<definitions/>", string(data))

	headers, err := c.Headers(ctx, location)
	require.NoError(t, err)
	assert.Equal(t, "text/xml", headers["Content-Type"])
}

func TestCacheReplace(t *testing.T) {
	ctx := context.Background()
	c := newCache(t, 0)

	require.NoError(t, c.Put(ctx, location, []byte("old"), nil))
	require.NoError(t, c.Put(ctx, location, []byte("new"), nil))

	data, ok, err := c.Get(ctx, location)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", string(data))

	var count int64
	require.NoError(t, c.db.Model(&DocumentModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := newCache(t, time.Hour)

	require.NoError(t, c.Put(ctx, location, []byte("<definitions/>"), nil))
	age(t, c, location, 2*time.Hour)

	_, ok, err := c.Get(ctx, location)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Purge(ctx))

	var count int64
	require.NoError(t, c.db.Unscoped().Model(&DocumentModel{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCacheNeverExpires(t *testing.T) {
	ctx := context.Background()
	c := newCache(t, 0)

	require.NoError(t, c.Put(ctx, location, []byte("<definitions/>"), nil))
	age(t, c, location, 1000*time.Hour)

	_, ok, err := c.Get(ctx, location)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCacheClear(t *testing.T) {
	ctx := context.Background()
	c := newCache(t, 0)

	require.NoError(t, c.Put(ctx, location, []byte("a"), nil))
	require.NoError(t, c.Put(ctx, "testdata/DuckService2.wsdl", []byte("b"), nil))

	require.NoError(t, c.Clear(ctx))

	_, ok, err := c.Get(ctx, location)
	require.NoError(t, err)
	assert.False(t, ok)
}
