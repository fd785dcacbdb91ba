package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"anoa.com/blogsocial/internal/config"
	"anoa.com/blogsocial/pkg/apperror"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var limits = &config.Config{RateLimitGlobal: 5 * time.Second, RateLimitPost: 15 * time.Second, RateLimitComment: 5 * time.Second}

// deadRedis points at a port nothing listens on.
func deadRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRateLimiterWithoutRedisAllowsEverything(t *testing.T) {
	ctx := context.Background()
	for name, l := range map[string]*RateLimiter{
		"nil limiter": nil,
		"nil client":  NewRateLimiter(nil, limits),
	} {
		t.Run(name, func(t *testing.T) {
			for range 3 {
				release, err := l.Acquire(ctx, accountA, ScopePost)
				require.NoError(t, err)
				require.NotNil(t, release)
				release()
			}
		})
	}

	ok, err := CheckAndSetRateLimit(ctx, nil, accountA, ScopeComment, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	ttl, err := GetRateLimitTTL(ctx, nil, accountA, ScopeComment)
	require.NoError(t, err)
	assert.Zero(t, ttl)
	assert.NoError(t, ClearRateLimit(ctx, nil, accountA, ScopeComment))
}

func TestDisabledScopeNeverTouchesRedis(t *testing.T) {
	ok, err := CheckAndSetRateLimit(context.Background(), deadRedis(t), accountA, ScopePost, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRateLimiterSurfacesRedisFailure(t *testing.T) {
	l := NewRateLimiter(deadRedis(t), limits)

	release, err := l.Acquire(context.Background(), accountA, ScopeComment)
	require.Error(t, err)
	assert.Nil(t, release)
	assert.NotErrorIs(t, err, apperror.ErrRateLimited)
	assert.Equal(t, http.StatusInternalServerError, apperror.MapErrorToStatus(err))
}

func TestRateLimitErrorMapsToTooManyRequests(t *testing.T) {
	err := error(&RateLimitError{Message: "you are doing that too fast. Please wait 4 seconds", RetryAfter: 4 * time.Second})

	assert.ErrorIs(t, err, apperror.ErrRateLimited)
	assert.Equal(t, http.StatusTooManyRequests, apperror.MapErrorToStatus(err))
	assert.Equal(t, "you are doing that too fast. Please wait 4 seconds", err.Error())
}

func TestRateLimitKeysAreScopedPerAccount(t *testing.T) {
	assert.Equal(t, "rate_limit:account:"+accountA.String()+":post", rateLimitKey(accountA, ScopePost))
	assert.NotEqual(t, rateLimitKey(accountA, ScopePost), rateLimitKey(accountB, ScopePost))
	assert.NotEqual(t, rateLimitKey(accountA, ScopePost), rateLimitKey(accountA, ScopeComment))
}
