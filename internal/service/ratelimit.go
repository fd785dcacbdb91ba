package service

import (
	"context"
	"fmt"
	"time"

	"anoa.com/blogsocial/internal/config"
	"anoa.com/blogsocial/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	ScopeGlobal  = "global"
	ScopePost    = "post"
	ScopeComment = "comment"
)

// RateLimitError reports an account acting again inside its cooldown.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string { return e.Message }

func (e *RateLimitError) Unwrap() error { return apperror.ErrRateLimited }

func rateLimitKey(userID uuid.UUID, action string) string {
	return fmt.Sprintf("rate_limit:account:%s:%s", userID, action)
}

// CheckAndSetRateLimit takes the cooldown for (userID, action) and reports
// whether it was free. Without Redis every call is allowed.
func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string, limit time.Duration) (bool, error) {
	if rdb == nil || limit <= 0 {
		return true, nil
	}

	wasSet, err := rdb.SetNX(ctx, rateLimitKey(userID, action), "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}
	return wasSet, nil
}

func GetRateLimitTTL(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	return rdb.TTL(ctx, rateLimitKey(userID, action)).Result()
}

func ClearRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, rateLimitKey(userID, action)).Err()
}

// RateLimiter throttles content creation per account: a global cooldown
// shared by every scope, plus one per scope.
type RateLimiter struct {
	rdb    *redis.Client
	global time.Duration
	scopes map[string]time.Duration
}

func NewRateLimiter(rdb *redis.Client, cfg *config.Config) *RateLimiter {
	return &RateLimiter{
		rdb:    rdb,
		global: cfg.RateLimitGlobal,
		scopes: map[string]time.Duration{
			ScopePost:    cfg.RateLimitPost,
			ScopeComment: cfg.RateLimitComment,
		},
	}
}

// Acquire takes the global and scope cooldowns for who. The returned release
// gives both back and is meant for writes that failed.
func (l *RateLimiter) Acquire(ctx context.Context, who uuid.UUID, scope string) (func(), error) {
	if l == nil || l.rdb == nil {
		return func() {}, nil
	}

	allowed, err := CheckAndSetRateLimit(ctx, l.rdb, who, ScopeGlobal, l.global)
	if err != nil {
		return nil, err
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, l.rdb, who, ScopeGlobal)
		return nil, &RateLimitError{
			Message:    fmt.Sprintf("you are doing that too fast. Please wait %.0f seconds", ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	limit := l.scopes[scope]
	allowed, err = CheckAndSetRateLimit(ctx, l.rdb, who, scope, limit)
	if err != nil {
		_ = ClearRateLimit(ctx, l.rdb, who, ScopeGlobal)
		return nil, err
	}
	if !allowed {
		_ = ClearRateLimit(ctx, l.rdb, who, ScopeGlobal)
		ttl, _ := GetRateLimitTTL(ctx, l.rdb, who, scope)
		return nil, &RateLimitError{
			Message:    fmt.Sprintf("you can only create one %s every %.0f seconds. Please wait %.0f seconds", scope, limit.Seconds(), ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	return func() {
		// The request context may already be canceled.
		ctx := context.WithoutCancel(ctx)
		_ = ClearRateLimit(ctx, l.rdb, who, ScopeGlobal)
		_ = ClearRateLimit(ctx, l.rdb, who, scope)
	}, nil
}
