// internal/listcache/listcache_test.go
package listcache

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var c Cache = Noop{}

	c.Set(ctx, ListingKey, []byte(`{}`))
	body, ok := c.Get(ctx, ListingKey)
	assert.False(t, ok)
	assert.Nil(t, body)
	assert.NoError(t, c.Invalidate(ctx))
}

func TestNewRedis_InvalidURL(t *testing.T) {
	_, err := NewRedis(context.Background(), "not-a-url", time.Minute, testLogger())
	assert.Error(t, err)
}

func TestRedis_UnreachableServerDegradesToMiss(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := &Redis{
		rdb: redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 200 * time.Millisecond,
			MaxRetries:  -1,
		}),
		ttl:    time.Minute,
		logger: testLogger(),
	}
	defer c.Close()

	c.Set(ctx, ListingKey, []byte(`{"total":0}`))
	body, ok := c.Get(ctx, ListingKey)
	require.False(t, ok)
	assert.Nil(t, body)
	assert.Error(t, c.Invalidate(ctx))
}
