package otp

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the challenge store with a shared Redis instance so
// multiple server processes see the same outstanding codes.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and returns a RedisStore.
func NewRedisStore(addr, password string, db int) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: client}
}

func challengeKey(phone string) string {
	return "otp:" + phone
}

// Put stores ch for phone, replacing any existing challenge. The key expires
// shortly after the challenge itself so stale entries clean themselves up
// while the expired-code branch stays observable.
func (s *RedisStore) Put(ctx context.Context, phone string, ch Challenge) error {
	key := challengeKey(phone)

	data := map[string]string{
		"code":       ch.Code,
		"expires_at": ch.ExpiresAt.Format(time.RFC3339Nano),
	}

	if err := s.client.HSet(ctx, key, data).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, key, time.Until(ch.ExpiresAt)+time.Minute).Err()
}

// Get returns the outstanding challenge for phone, if any.
func (s *RedisStore) Get(ctx context.Context, phone string) (Challenge, bool, error) {
	vals, err := s.client.HGetAll(ctx, challengeKey(phone)).Result()
	if err != nil {
		return Challenge{}, false, err
	}
	if len(vals) == 0 {
		return Challenge{}, false, nil
	}

	expiresAt, err := time.Parse(time.RFC3339Nano, vals["expires_at"])
	if err != nil {
		return Challenge{}, false, err
	}

	return Challenge{Code: vals["code"], ExpiresAt: expiresAt}, true, nil
}

// Delete removes the challenge for phone.
func (s *RedisStore) Delete(ctx context.Context, phone string) error {
	return s.client.Del(ctx, challengeKey(phone)).Err()
}
