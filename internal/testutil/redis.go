package testutil

import (
	kolredis "KolBD/internal/pkg/redis"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// StartRedis 启动 miniredis 并替换全局客户端，测试结束后恢复为未配置
func StartRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	kolredis.Rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = kolredis.Close()
	})
	return mr
}
