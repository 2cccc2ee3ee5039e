package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	TransferLockTTL       = 3 * time.Second
	TransferLockKeyPrefix = "lock:transfer:community" // 转移期间的社区级互斥
)

// TransferLock 社区转移的分布式锁
// 只是并发前置闸门，真正的串行化靠数据库行锁；TTL 限定持锁上限，避免宕机死锁
type TransferLock struct {
	RDB *redis.Client
}

func lockKey(communityID uint64) string {
	return fmt.Sprintf("%s:%d", TransferLockKeyPrefix, communityID)
}

// Acquire 请求加锁，已被占用返回 false
func (l *TransferLock) Acquire(ctx context.Context, communityID uint64, token string) (bool, error) {
	return l.RDB.SetNX(ctx, lockKey(communityID), token, TransferLockTTL).Result()
}

// Release 用lua保证比对token和删除的原子性
func (l *TransferLock) Release(ctx context.Context, communityID uint64, token string) error {
	_, err := redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`).Run(ctx, l.RDB, []string{lockKey(communityID)}, token).Result()
	return err
}
