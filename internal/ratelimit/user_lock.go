package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// UserLock serializes per-user stats updates. Without it two activities
// logged in quick succession for the same user race the read-modify-write
// of the stats document and one update is lost.
//
// When Redis is available the lock is a SETNX lease so it also covers
// multiple server instances; otherwise a per-process mutex map is used.
type UserLock struct {
	rdb *redis.Client

	mu    sync.Mutex
	local map[string]*sync.Mutex
}

const lockTTL = 10 * time.Second
const lockRetryInterval = 50 * time.Millisecond

// NewUserLock creates a UserLock backed by the shared Redis client when one
// is connected.
func NewUserLock() *UserLock {
	return &UserLock{
		rdb:   GetRedisClient(),
		local: make(map[string]*sync.Mutex),
	}
}

// Acquire blocks until the lock for key is held, then returns a release
// function. The context bounds the wait.
func (l *UserLock) Acquire(ctx context.Context, key string) (func(), error) {
	if l.rdb == nil {
		return l.acquireLocal(key), nil
	}

	redisKey := "lock:" + key
	for {
		ok, err := l.rdb.SetNX(ctx, redisKey, 1, lockTTL).Result()
		if err != nil {
			// Redis went away mid-flight; degrade to the local lock rather
			// than failing the activity.
			return l.acquireLocal(key), nil
		}
		if ok {
			return func() { l.rdb.Del(GetContext(), redisKey) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}

func (l *UserLock) acquireLocal(key string) func() {
	l.mu.Lock()
	m, ok := l.local[key]
	if !ok {
		m = &sync.Mutex{}
		l.local[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
