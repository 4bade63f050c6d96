package lock

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLocker(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb, err := NewRedisClient(ctx, addr, "", 0)
	require.NoError(t, err)
	defer rdb.Close()

	l := NewRedisLocker(rdb, "scholarpath:test:")
	key := "lease-" + time.Now().Format("150405.000000")

	release, err := l.Acquire(ctx, key, 5*time.Second)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, key, 5*time.Second)
	assert.ErrorIs(t, err, ErrNotAcquired)

	require.NoError(t, release(ctx))

	release2, err := l.Acquire(ctx, key, 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, release2(ctx))
}
