package kvstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keeps key-value pairs in Redis under a key prefix, for deployments
// that share client state across hosts. Keys are unexpiring; the session
// layer decides when to delete them.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis builds a Redis-backed store. prefix namespaces the keys so
// several clients can share one instance.
func NewRedis(addr, password, prefix string) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		prefix: prefix,
	}
}

func (r *Redis) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *Redis) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *Redis) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil && err != redis.Nil {
		return err
	}
	return nil
}
