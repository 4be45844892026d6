package payment

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"redpacket/pkg/logger"
	"redpacket/pkg/redis"
)

// Locker 按键加锁，用于串行化同一订单的并发通知
type Locker interface {
	// TryLock 非阻塞加锁，ok 为 false 表示锁被他人持有
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(), ok bool, err error)
}

// MemoryLocker 进程内按键互斥
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemoryLocker 创建进程内锁
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}

// TryLock 实现 Locker，ttl 在进程内无意义
func (l *MemoryLocker) TryLock(_ context.Context, key string, _ time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[key]; ok {
		return nil, false, nil
	}
	l.held[key] = struct{}{}

	return func() {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}, true, nil
}

// RedisLocker 基于 SETNX 的分布式锁，多实例部署时使用
type RedisLocker struct {
	client *redis.RedisClient
}

// NewRedisLocker 创建 Redis 锁
func NewRedisLocker(client *redis.RedisClient) *RedisLocker {
	return &RedisLocker{client: client}
}

// TryLock 实现 Locker
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, "lock:"+key, token, ttl)
	if err != nil || !ok {
		return nil, false, err
	}

	return func() {
		// 释放锁不受请求 ctx 取消影响
		ctx, cancel := context.WithTimeout(context.Background(), redis.DefaultTimeout)
		defer cancel()
		if err := l.client.Unlock(ctx, "lock:"+key, token); err != nil {
			logger.WarnString("Payment", "Unlock", err.Error())
		}
	}, true, nil
}
