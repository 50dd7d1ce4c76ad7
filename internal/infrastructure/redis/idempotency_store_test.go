package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/boutique-api/internal/infrastructure/redis"
)

func setupTestRedis(t *testing.T) (*redis.IdempotencyStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return redis.NewIdempotencyStore(client, time.Minute), mr
}

func TestReserve_SoloLaPrimeraVez(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, time.Minute, mr.TTL("idem:k1"))
}

func TestGet_PendienteYCompletada(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "k1")
	assert.ErrorIs(t, err, redis.ErrNotFound)

	_, err = store.Reserve(ctx, "k1")
	require.NoError(t, err)
	got, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, got.Pending)

	require.NoError(t, store.Complete(ctx, "k1", redis.StoredResponse{
		Status: 200, ContentType: "application/json", Body: []byte(`{"success":true}`),
	}))
	got, err = store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, got.Pending)
	assert.Equal(t, 200, got.Status)
	assert.JSONEq(t, `{"success":true}`, string(got.Body))
	assert.Equal(t, time.Minute, mr.TTL("idem:k1"))
}

func TestRelease_PermiteReintentar(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	_, err := store.Reserve(ctx, "k1")
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "k1"))

	ok, err := store.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReserve_ExpiraConTTL(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	_, err := store.Reserve(ctx, "k1")
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	ok, err := store.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	client, err := redis.NewClient(context.Background(), addr, "", 0)
	require.NoError(t, err)
	client.Close()

	mr.Close()
	_, err = redis.NewClient(context.Background(), addr, "", 0)
	assert.Error(t, err)
}
