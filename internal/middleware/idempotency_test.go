package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/8bitCyborg/demoCredit/internal/logging"
)

func setupTestApp(t *testing.T) (*fiber.App, *atomic.Int64, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))

	var calls atomic.Int64
	app.Post("/wallet/fund", func(c *fiber.Ctx) error {
		n := calls.Add(1)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call": n})
	})

	cleanup := func() {
		cache.Close()
		mr.Close()
	}

	return app, &calls, cleanup
}

func postFund(t *testing.T, app *fiber.App, idemKey string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/wallet/fund", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if idemKey != "" {
		req.Header.Set(idempotencyKeyHeader, idemKey)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestIdempotencyWithoutHeaderExecutesEachTime(t *testing.T) {
	app, calls, cleanup := setupTestApp(t)
	defer cleanup()

	postFund(t, app, "")
	postFund(t, app, "")

	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 handler invocations, got %d", got)
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	app, calls, cleanup := setupTestApp(t)
	defer cleanup()

	status1, body1 := postFund(t, app, "abc123")
	if status1 != fiber.StatusCreated {
		t.Fatalf("expected %d got %d", fiber.StatusCreated, status1)
	}

	status2, body2 := postFund(t, app, "abc123")
	if status2 != fiber.StatusCreated {
		t.Fatalf("expected replayed status %d got %d", fiber.StatusCreated, status2)
	}
	if body1 != body2 {
		t.Fatalf("expected replayed body %s got %s", body1, body2)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("handler ran %d times, want 1", got)
	}
}

func TestIdempotencyDistinctKeysExecuteSeparately(t *testing.T) {
	app, calls, cleanup := setupTestApp(t)
	defer cleanup()

	postFund(t, app, "key-1")
	postFund(t, app, "key-2")

	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 handler invocations, got %d", got)
	}
}
