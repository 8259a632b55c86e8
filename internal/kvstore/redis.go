package kvstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisSlot 一个槽位对应一个 redis key，不设 TTL（持久数据）
type RedisSlot struct {
	rdb *redis.Client
	key string
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
}

func NewRedisSlot(rdb *redis.Client, name string) *RedisSlot {
	return &RedisSlot{rdb: rdb, key: "kvslot:" + name}
}

func (s *RedisSlot) Load(ctx context.Context) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *RedisSlot) Save(ctx context.Context, data []byte) error {
	return s.rdb.Set(ctx, s.key, data, 0).Err()
}

func (s *RedisSlot) Clear(ctx context.Context) error {
	return s.rdb.Del(ctx, s.key).Err()
}
