package xredis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sparkloop/backend/config"
	"github.com/sparkloop/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *client {
	s := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Redis = config.RedisConfigs{Enable: true, Addr: s.Addr()}

	c, err := NewClient(xcontext.WithConfigs(context.Background(), cfg))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClient_SortedSet(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	ok, err := c.Exist(ctx, "board")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.ZAdd(ctx, "board", redis.Z{Member: "alice", Score: 2}, redis.Z{Member: "bob", Score: 1}))
	updated, err := c.ZSetIfExist(ctx, "board", redis.Z{Member: "bob", Score: 4})
	require.NoError(t, err)
	require.True(t, updated)

	ok, err = c.Exist(ctx, "board")
	require.NoError(t, err)
	require.True(t, ok)

	results, err := c.ZRevRangeWithScores(ctx, "board", 0, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "bob", results[0].Member)
	require.Equal(t, float64(4), results[0].Score)

	rank, err := c.ZRevRank(ctx, "board", "alice")
	require.NoError(t, err)
	require.Equal(t, uint64(1), rank)

	score, err := c.ZScore(ctx, "board", "alice")
	require.NoError(t, err)
	require.Equal(t, float64(2), score)

	require.NoError(t, c.Del(ctx, "board"))
	ok, err = c.Exist(ctx, "board")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestClient_ZSetIfExist(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	// A missing set is left to its loader.
	updated, err := c.ZSetIfExist(ctx, "board", redis.Z{Member: "alice", Score: 1})
	require.NoError(t, err)
	require.False(t, updated)
	ok, err := c.Exist(ctx, "board")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.ZAdd(ctx, "board", redis.Z{Member: "alice", Score: 2}, redis.Z{Member: "bob", Score: 1}))

	// Setting the same score twice does not add it up.
	for range 2 {
		updated, err = c.ZSetIfExist(ctx, "board", redis.Z{Member: "carol", Score: 3}, redis.Z{Member: "bob", Score: 0})
		require.NoError(t, err)
		require.True(t, updated)
	}

	score, err := c.ZScore(ctx, "board", "carol")
	require.NoError(t, err)
	require.Equal(t, float64(3), score)

	_, err = c.ZScore(ctx, "board", "bob")
	require.ErrorIs(t, err, redis.Nil)
}
