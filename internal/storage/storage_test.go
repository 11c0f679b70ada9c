package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func recv(t *testing.T, ch <-chan []byte) string {
	t.Helper()
	select {
	case b, ok := <-ch:
		if !ok {
			t.Fatal("subscription closed")
		}
		return string(b)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot received")
	}
	return ""
}

// 两种实现行为一致
func exerciseRepo(t *testing.T, repo SnapshotRepo) {
	ctx := context.Background()

	_, err := repo.Last(ctx, "r1")
	assert.ErrorIs(t, err, ErrNoSnapshot)

	ch, cancel, err := repo.Subscribe(ctx, "r1")
	if !assert.NoError(t, err) {
		return
	}
	defer cancel()

	assert.NoError(t, repo.Publish(ctx, "r1", []byte(`{"version":1}`)))
	assert.NoError(t, repo.Publish(ctx, "r2", []byte(`{"version":9}`)))
	assert.NoError(t, repo.Publish(ctx, "r1", []byte(`{"version":2}`)))

	assert.Equal(t, `{"version":1}`, recv(t, ch))
	assert.Equal(t, `{"version":2}`, recv(t, ch), "other rooms never leak in")

	last, err := repo.Last(ctx, "r1")
	assert.NoError(t, err)
	assert.Equal(t, `{"version":2}`, string(last))

	cancel()
	assert.Eventually(t, func() bool {
		_, open := <-ch
		return !open
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMemoryRepo(t *testing.T) {
	exerciseRepo(t, NewMemoryRepo())
}

// ---------- Redis（miniredis）实现测试 ----------
func TestRedisRepo(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	exerciseRepo(t, NewRedisRepo(rdb, time.Hour))

	assert.True(t, mr.Exists("gd:room:r1:last"))
	assert.Equal(t, time.Hour, mr.TTL("gd:room:r1:last"))

	mr.FastForward(2 * time.Hour)
	_, err = NewRedisRepo(rdb, time.Hour).Last(context.Background(), "r1")
	assert.ErrorIs(t, err, ErrNoSnapshot, "expired with its ttl")
}

func TestInitRedis(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	addr := mr.Addr()

	assert.NoError(t, InitRedis(context.Background(), addr, "", 0))
	assert.NotNil(t, Rdb)
	_ = Rdb.Close()

	// 关闭后地址不可用
	mr.Close()
	assert.Error(t, InitRedis(context.Background(), addr, "", 0))
	_ = Rdb.Close()
}
