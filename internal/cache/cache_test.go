package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestNilClientIsEmptyCache(t *testing.T) {
	var c *Client
	ctx := context.Background()

	data, err := c.Get(ctx, CategoryKey(1))
	assert.NoError(t, err)
	assert.Nil(t, data)

	assert.NoError(t, c.Set(ctx, CategoryKey(1), []byte("{}"), time.Minute))
	assert.NoError(t, c.Delete(ctx, CategoryKey(1), ProductKey(2)))
	assert.NoError(t, c.Close())
	assert.Error(t, c.Ping(ctx))

	var dst map[string]interface{}
	assert.False(t, c.GetJSON(ctx, CategoryKey(1), &dst))
}

func TestUnreachableRedisFailsSafe(t *testing.T) {
	c := NewFromRedis(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	}))
	defer c.Close()
	ctx := context.Background()

	assert.NoError(t, c.SetJSON(ctx, ProductKey(9), map[string]string{"name": "Milk 1L"}, time.Minute))

	var dst map[string]string
	assert.False(t, c.GetJSON(ctx, ProductKey(9), &dst))
	assert.NoError(t, c.Delete(ctx, ProductKey(9)))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "user:3", UserKey(3))
	assert.Equal(t, "category:4", CategoryKey(4))
	assert.Equal(t, "product:5", ProductKey(5))
}
