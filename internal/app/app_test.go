package app

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goaltracker/api/internal/config"
	"github.com/goaltracker/api/internal/middleware"
	"github.com/goaltracker/api/internal/repository/repositorytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test-secret-test-secret-test-secret",
		JWTExpiry:      time.Hour,
		AuthRateLimit:  5,
		AuthRateWindow: time.Minute,
	}
}

func TestBuildInMemoryLimiter(t *testing.T) {
	a := Build(testConfig(), Deps{
		Users: repositorytest.NewUserRepository(),
		Goals: repositorytest.NewGoalRepository(),
	})

	assert.IsType(t, &middleware.RateLimiter{}, a.AuthLimiter)
	assert.Nil(t, a.FileService)
	require.NoError(t, a.Close(context.Background()))
}

func TestBuildRedisLimiter(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := connectRedis(context.Background(), "redis://"+s.Addr())
	require.NoError(t, err)

	a := Build(testConfig(), Deps{
		Redis: client,
		Users: repositorytest.NewUserRepository(),
		Goals: repositorytest.NewGoalRepository(),
	})
	assert.IsType(t, &middleware.RedisRateLimiter{}, a.AuthLimiter)

	ok, err := a.AuthLimiter.Allow(context.Background(), "auth:test")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, a.Close(context.Background()))
}

func TestConnectRedisBadURL(t *testing.T) {
	_, err := connectRedis(context.Background(), "not a url")
	assert.ErrorContains(t, err, "parse redis url")
}
