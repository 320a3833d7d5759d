package throttle

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korey-h/api-yamdb/pkg/utils"
)

func exerciseLimiter(t *testing.T, l Limiter) {
	t.Helper()
	ctx := context.Background()
	key := "confirmation:" + uuid.NewString()

	ok, err := l.Allow(ctx, key, time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "first event is admitted")

	ok, err = l.Allow(ctx, key, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "second event inside the window is rejected")

	ok, err = l.Allow(ctx, key+"-other", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "keys are independent")

	require.NoError(t, l.Release(ctx, key))
	ok, err = l.Allow(ctx, key, time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "released key is admitted again")

	require.NoError(t, l.Release(ctx, "confirmation:never-seen"))

	for i := 0; i < 3; i++ {
		ok, err = l.Allow(ctx, key, 0)
		require.NoError(t, err)
		assert.True(t, ok, "zero window disables throttling")
	}
}

func TestMemoryLimiter(t *testing.T) {
	exerciseLimiter(t, NewMemoryLimiter())
}

func TestMemoryLimiterWindowElapses(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "k", 20*time.Millisecond)
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		ok, _ := l.Allow(ctx, "k", 20*time.Millisecond)
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestRedisLimiter(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	client, err := NewRedisClient(context.Background(), utils.RedisConfig{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	exerciseLimiter(t, NewRedisLimiter(client))
}
