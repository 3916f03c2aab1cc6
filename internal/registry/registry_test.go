package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRegistry(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return NewRedis(rdb, "test"), mr
}

func backends(t *testing.T) map[string]Registry {
	r, _ := newRedisRegistry(t)
	return map[string]Registry{
		"memory": NewMemory(),
		"redis":  r,
	}
}

func TestRegistry_RegisterRevokeContract(t *testing.T) {
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	for name, reg := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ok, err := reg.IsValid(ctx, "tok-1")
			require.NoError(t, err)
			assert.False(t, ok, "never-issued token must not be valid")

			require.NoError(t, reg.Register(ctx, "tok-1", exp))
			ok, err = reg.IsValid(ctx, "tok-1")
			require.NoError(t, err)
			assert.True(t, ok)

			require.NoError(t, reg.Revoke(ctx, "tok-1"))
			ok, err = reg.IsValid(ctx, "tok-1")
			require.NoError(t, err)
			assert.False(t, ok, "revoked token must not be valid")

			// Revoking twice, or revoking something never registered, is fine.
			assert.NoError(t, reg.Revoke(ctx, "tok-1"))
			assert.NoError(t, reg.Revoke(ctx, "never-seen"))
		})
	}
}

func TestRegistry_RevokeOnlyTouchesOneToken(t *testing.T) {
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	for name, reg := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, reg.Register(ctx, "a", exp))
			require.NoError(t, reg.Register(ctx, "b", exp))
			require.NoError(t, reg.Revoke(ctx, "a"))

			ok, err := reg.IsValid(ctx, "b")
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestMemory_ConcurrentRegisterRevoke(t *testing.T) {
	ctx := context.Background()
	reg := NewMemory()
	exp := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok := fmt.Sprintf("tok-%d", i)
			_ = reg.Register(ctx, tok, exp)
			if i%2 == 0 {
				_ = reg.Revoke(ctx, tok)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 32, reg.Len())
}

func TestRedis_StoresDigestWithTokenExpiry(t *testing.T) {
	ctx := context.Background()
	reg, mr := newRedisRegistry(t)

	require.NoError(t, reg.Register(ctx, "raw-token", time.Now().Add(time.Minute)))

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.NotContains(t, keys[0], "raw-token")
	assert.Contains(t, keys[0], "test:")
	assert.Greater(t, mr.TTL(keys[0]), time.Duration(0))

	mr.FastForward(2 * time.Minute)
	ok, err := reg.IsValid(ctx, "raw-token")
	require.NoError(t, err)
	assert.False(t, ok, "entry should lapse with the token")
}

func TestRedis_SkipsAlreadyExpired(t *testing.T) {
	ctx := context.Background()
	reg, mr := newRedisRegistry(t)

	require.NoError(t, reg.Register(ctx, "old", time.Now().Add(-time.Second)))
	assert.Empty(t, mr.Keys())
}

func TestRedis_ReportsUnavailable(t *testing.T) {
	ctx := context.Background()
	reg, mr := newRedisRegistry(t)
	mr.Close()

	_, err := reg.IsValid(ctx, "tok")
	assert.Error(t, err)
	assert.Error(t, reg.Register(ctx, "tok", time.Now().Add(time.Hour)))
}
