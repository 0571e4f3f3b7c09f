package ratelimit

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles appreciation sends so a user cannot farm the
// appreciation_master achievement by spamming their partner.
type RateLimiter struct {
	rdb *redis.Client
}

// RateLimitConfig defines rate limit rules
type RateLimitConfig struct {
	MaxAppreciations   int           // per window
	AppreciationWindow time.Duration // time window for appreciation sends
}

// DefaultRateLimitConfig returns default rate limit configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxAppreciations:   10,
		AppreciationWindow: time.Minute,
	}
}

// NewRateLimiter creates a new RateLimiter instance
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{rdb: GetRedisClient()}
}

// CheckAppreciationRateLimit reports whether the user may send another
// appreciation right now. With no Redis the limiter is permissive.
func (rl *RateLimiter) CheckAppreciationRateLimit(userID string, config RateLimitConfig) (bool, error) {
	if rl == nil || rl.rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("rate:appreciation:%s", userID)

	count, err := rl.rdb.Get(ctx, key).Int()
	if err == redis.Nil {
		// First send in this window, allow it
		return true, nil
	} else if err != nil {
		return false, err
	}

	if count >= config.MaxAppreciations {
		return false, nil
	}

	return true, nil
}

// RecordAppreciation records a send for rate limiting
func (rl *RateLimiter) RecordAppreciation(userID string, config RateLimitConfig) error {
	if rl == nil || rl.rdb == nil {
		return nil
	}

	key := fmt.Sprintf("rate:appreciation:%s", userID)

	count, err := rl.rdb.Incr(ctx, key).Result()
	if err != nil {
		return err
	}

	// Set expiration if first time
	if count == 1 {
		rl.rdb.Expire(ctx, key, config.AppreciationWindow)
	}

	return nil
}
