package xredis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sparkloop/backend/pkg/xcontext"
)

type Client interface {
	Exist(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, key ...string) error

	// Sorted set
	ZAdd(ctx context.Context, key string, z ...redis.Z) error
	// ZSetIfExist sets the score of every member of an existing sorted set,
	// members scored 0 are removed. It reports false when key does not exist.
	ZSetIfExist(ctx context.Context, key string, z ...redis.Z) (bool, error)
	ZRevRangeWithScores(ctx context.Context, key string, offset, limit int) ([]redis.Z, error)
	ZRevRank(ctx context.Context, key string, member string) (uint64, error)
	ZScore(ctx context.Context, key string, member string) (float64, error)
}

type client struct {
	redisClient *redis.Client
}

func NewClient(ctx context.Context) (*client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:            xcontext.Configs(ctx).Redis.Addr,
		MaxRetries:      5,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		PoolFIFO:        false,
		PoolSize:        5,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{redisClient: redisClient}, nil
}

func (c *client) Exist(ctx context.Context, key string) (bool, error) {
	n, err := c.redisClient.Exists(ctx, key).Uint64()
	if err != nil {
		return false, err
	}

	if n != 1 {
		return false, nil
	}

	return true, nil
}

func (c *client) Del(ctx context.Context, key ...string) error {
	return c.redisClient.Del(ctx, key...).Err()
}

func (c *client) ZAdd(ctx context.Context, key string, z ...redis.Z) error {
	return c.redisClient.ZAdd(ctx, key, z...).Err()
}

var zSetIfExistScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
for i = 1, #ARGV, 2 do
	if tonumber(ARGV[i]) > 0 then
		redis.call('ZADD', KEYS[1], ARGV[i], ARGV[i+1])
	else
		redis.call('ZREM', KEYS[1], ARGV[i+1])
	end
end
return 1
`)

func (c *client) ZSetIfExist(ctx context.Context, key string, z ...redis.Z) (bool, error) {
	args := make([]any, 0, 2*len(z))
	for _, m := range z {
		args = append(args, m.Score, m.Member)
	}

	n, err := zSetIfExistScript.Run(ctx, c.redisClient, []string{key}, args...).Int()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (c *client) ZRevRangeWithScores(
	ctx context.Context, key string, offset, limit int,
) ([]redis.Z, error) {
	result := c.redisClient.ZRevRangeWithScores(ctx, key, int64(offset), int64(offset+limit-1))
	return result.Result()
}

func (c *client) ZRevRank(ctx context.Context, key string, member string) (uint64, error) {
	return c.redisClient.ZRevRank(ctx, key, member).Uint64()
}

func (c *client) ZScore(ctx context.Context, key string, member string) (float64, error) {
	return c.redisClient.ZScore(ctx, key, member).Result()
}

func (c *client) Close() error {
	return c.redisClient.Close()
}
