package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratelimitTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCheckRateLimit(t *testing.T) {
	t.Run("Test Environment Bypass", func(t *testing.T) {
		t.Setenv("APP_ENV", "test")
		allowed, err := CheckRateLimit(context.Background(), nil, "signup", "ip:1.2.3.4", 1, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("Development Environment Bypass", func(t *testing.T) {
		t.Setenv("APP_ENV", "development")
		allowed, err := CheckRateLimit(context.Background(), nil, "signup", "ip:1.2.3.4", 1, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("Nil Redis Is An Error", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		allowed, err := CheckRateLimit(context.Background(), nil, "signup", "ip:1.2.3.4", 1, time.Minute)
		assert.Error(t, err)
		assert.False(t, allowed)
	})

	t.Run("Enforced Over Limit", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		mr, rdb := ratelimitTestClient(t)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			allowed, err := CheckRateLimit(ctx, rdb, "signup", "ip:1.2.3.4", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed, "request %d should be allowed", i+1)
		}

		allowed, err := CheckRateLimit(ctx, rdb, "signup", "ip:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)

		// A different caller has its own counter.
		allowed, err = CheckRateLimit(ctx, rdb, "signup", "ip:9.9.9.9", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)

		// Counter resets after the window expires.
		mr.FastForward(time.Minute + time.Second)
		allowed, err = CheckRateLimit(ctx, rdb, "signup", "ip:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	okHandler := func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}

	t.Run("Bypass In Test Mode", func(t *testing.T) {
		t.Setenv("APP_ENV", "test")
		app := fiber.New()
		app.Get("/limited", RateLimit(nil, 1, time.Minute), okHandler)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("Over Limit Returns 429", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		_, rdb := ratelimitTestClient(t)
		app := fiber.New()
		app.Get("/limited", RateLimit(rdb, 2, time.Minute, "limited"), okHandler)

		for i := 0; i < 2; i++ {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			_ = resp.Body.Close()
		}

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("FailOpen With Nil Redis", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		app := fiber.New()
		app.Get("/limited", RateLimit(nil, 1, time.Minute), okHandler)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("FailClosed With Nil Redis", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		app := fiber.New()
		app.Get("/sensitive", RateLimitWithPolicy(nil, 1, time.Minute, FailClosed), okHandler)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/sensitive", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		_ = resp.Body.Close()
	})
}
