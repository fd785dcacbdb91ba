package bootstrap

import (
	"context"
	"testing"

	"anoa.com/blogsocial/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConnectSinksWithoutBackends(t *testing.T) {
	s, err := ConnectSinks(context.Background(), &config.Config{}, nil, zap.NewNop())
	require.NoError(t, err)

	assert.Empty(t, s.List())
	assert.Nil(t, s.Redis)
	assert.Nil(t, s.RedisClient)
	assert.Nil(t, s.Outbox)
	assert.NoError(t, s.Close())
}

func TestConnectSinksRejectsBadRedisURL(t *testing.T) {
	_, err := ConnectSinks(context.Background(), &config.Config{RedisURL: "not a url"}, nil, zap.NewNop())
	assert.Error(t, err)
}
