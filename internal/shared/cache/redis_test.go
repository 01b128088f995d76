package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedis("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	require.NoError(t, c.Ping(context.Background()))

	require.NoError(t, c.Client.Set(context.Background(), "k", "v", 0).Err())
	assert.True(t, mr.Exists("k"))
	assert.NoError(t, c.Close())
}

func TestNewRedis_BadURL(t *testing.T) {
	_, err := NewRedis("not-a-url")
	assert.ErrorContains(t, err, "invalid REDIS_URL")
}

func TestPing_Down(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := NewRedis("redis://" + mr.Addr())
	require.NoError(t, err)
	defer c.Close()

	mr.Close()
	assert.ErrorContains(t, c.Ping(context.Background()), "redis ping failed")
}
