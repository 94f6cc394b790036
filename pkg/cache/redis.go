package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/storeadmin/config"
)

// RedisDriver shares cached lists across CLI invocations via Redis.
type RedisDriver struct {
	rdb *redis.Client
	ctx context.Context
}

// NewRedisDriver connects to the configured Redis and verifies the
// connection with a ping, so a dead Redis is discovered at startup rather
// than on the first list view.
func NewRedisDriver() (*RedisDriver, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}
	return &RedisDriver{rdb: rdb, ctx: ctx}, nil
}

func (d *RedisDriver) Name() string { return "redis" }

func (d *RedisDriver) Get(key string, dest interface{}) bool {
	val, err := d.rdb.Get(d.ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

func (d *RedisDriver) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return d.rdb.Set(d.ctx, key, data, ttl).Err()
}

func (d *RedisDriver) DelPrefix(prefix string) error {
	iter := d.rdb.Scan(d.ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(d.ctx) {
		if err := d.rdb.Del(d.ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
