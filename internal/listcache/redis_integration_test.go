//go:build integration

// internal/listcache/redis_integration_test.go
package listcache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)
	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

func TestRedis_Integration(t *testing.T) {
	ctx := context.Background()
	c, err := NewRedis(ctx, startRedis(t), time.Minute, testLogger())
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.Get(ctx, ListingKey)
	assert.False(t, ok, "empty cache is a miss")

	c.Set(ctx, ListingKey, []byte(`{"total":1}`))
	body, ok := c.Get(ctx, ListingKey)
	require.True(t, ok)
	assert.JSONEq(t, `{"total":1}`, string(body))

	require.NoError(t, c.Invalidate(ctx))
	_, ok = c.Get(ctx, ListingKey)
	assert.False(t, ok, "invalidated listing is a miss")
}
