package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := OpenRedis(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer rdb.Close()

	require.NoError(t, rdb.Set(context.Background(), "k", "v", time.Minute).Err())
	assert.True(t, mr.Exists("k"))
}

func TestOpenRedis_Errors(t *testing.T) {
	_, err := OpenRedis(context.Background(), RedisConfig{})
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err = OpenRedis(context.Background(), RedisConfig{Addr: addr, DialTimeout: 100 * time.Millisecond, PingTimeout: 200 * time.Millisecond})
	assert.Error(t, err)
}

func TestRedisConfigDefaults(t *testing.T) {
	cfg := RedisConfig{Addr: "x"}.withDefaults()
	assert.Equal(t, 10, cfg.PoolSize)
	assert.Equal(t, 2*time.Second, cfg.PingTimeout)
}
