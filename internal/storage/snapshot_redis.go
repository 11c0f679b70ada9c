package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisRepo(rdb *redis.Client, ttl time.Duration) SnapshotRepo {
	return &redisRepo{rdb: rdb, ttl: ttl}
}

func (r *redisRepo) Publish(ctx context.Context, roomID string, payload []byte) error {
	p := r.rdb.Pipeline()
	p.Set(ctx, lastKey(roomID), payload, r.ttl)
	p.Publish(ctx, stateChannel(roomID), payload)
	_, err := p.Exec(ctx)
	return err
}

func (r *redisRepo) Last(ctx context.Context, roomID string) ([]byte, error) {
	b, err := r.rdb.Get(ctx, lastKey(roomID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *redisRepo) Subscribe(ctx context.Context, roomID string) (<-chan []byte, func(), error) {
	sub := r.rdb.Subscribe(ctx, stateChannel(roomID))
	// 等订阅确认后再返回
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, err
	}

	out := make(chan []byte, 16)
	done := make(chan struct{})
	go func() {
		defer close(out)
		msgs := sub.Channel()
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				default:
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = sub.Close()
		})
	}
	return out, cancel, nil
}
