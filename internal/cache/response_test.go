package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client connected to the test Valkey.
// Skips the test if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "resp:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestRequestKey(t *testing.T) {
	if got := RequestKey("/api/events", ""); got != "/api/events" {
		t.Errorf("got %q", got)
	}
	if got := RequestKey("/api/events", "featured=true"); got != "/api/events?featured=true" {
		t.Errorf("got %q", got)
	}
}

func TestResponseCacheRoundTrip(t *testing.T) {
	client := testValkeyClient(t)
	rc := NewResponseCache(client, time.Minute)
	ctx := context.Background()

	key := RequestKey("/api/events", "category=weddings")

	if _, ok := rc.Get(ctx, key); ok {
		t.Fatal("unexpected cache hit before Set")
	}

	rc.Set(ctx, key, []byte(`[{"slug":"gala"}]`))

	body, ok := rc.Get(ctx, key)
	if !ok {
		t.Fatal("expected cache hit after Set")
	}
	if string(body) != `[{"slug":"gala"}]` {
		t.Errorf("body = %s", body)
	}
}

func TestResponseCacheInvalidateAll(t *testing.T) {
	client := testValkeyClient(t)
	rc := NewResponseCache(client, time.Minute)
	ctx := context.Background()

	rc.Set(ctx, "/api/events", []byte("[]"))
	rc.Set(ctx, "/api/categories", []byte("[]"))
	rc.Set(ctx, "/api/events?featured=1", []byte("[]"))

	rc.InvalidateAll(ctx)

	for _, key := range []string{"/api/events", "/api/categories", "/api/events?featured=1"} {
		if _, ok := rc.Get(ctx, key); ok {
			t.Errorf("key %q survived InvalidateAll", key)
		}
	}
}
