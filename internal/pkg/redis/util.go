package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrDisabled = errors.New("redis is not configured")

// SetWithExpiration 设置键值对并设置过期时间
func SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if Rdb == nil {
		return ErrDisabled
	}
	return Rdb.Set(ctx, key, value, expiration).Err()
}

// GetValue 获取字符串类型的值，键不存在时返回空串
func GetValue(ctx context.Context, key string) (string, error) {
	if Rdb == nil {
		return "", ErrDisabled
	}
	value, err := Rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// SetHash 覆盖写入整个哈希
func SetHash(ctx context.Context, key string, values map[string]string) error {
	if Rdb == nil {
		return ErrDisabled
	}
	pipe := Rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, values)
	_, err := pipe.Exec(ctx)
	return err
}

// GetHash 键不存在时返回空 map
func GetHash(ctx context.Context, key string) (map[string]string, error) {
	if Rdb == nil {
		return nil, ErrDisabled
	}
	return Rdb.HGetAll(ctx, key).Result()
}

// DeleteKey 删除一个或多个键
func DeleteKey(ctx context.Context, keys ...string) error {
	if Rdb == nil {
		return ErrDisabled
	}
	return Rdb.Del(ctx, keys...).Err()
}
