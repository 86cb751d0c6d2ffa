package testutil

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultTestRedisDB keeps tests away from the DB a local service uses.
const defaultTestRedisDB = 15

// SetupTestRedis returns a client on an emptied test DB. The address comes
// from TEST_REDIS_ADDR (default localhost:56379) and the DB index from
// TEST_REDIS_DB. The test is skipped when Redis does not answer unless
// TEST_REQUIRE_REDIS or TEST_REQUIRE_INFRA is set.
func SetupTestRedis(t testing.TB) *redis.Client {
	t.Helper()

	dbIndex := defaultTestRedisDB
	if v := envOr("TEST_REDIS_DB", ""); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			dbIndex = i
		}
	}
	client := redis.NewClient(&redis.Options{
		Addr: envOr("TEST_REDIS_ADDR", "localhost:56379"),
		DB:   dbIndex,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") {
			t.Fatalf("redis not available: %v", err)
		}
		t.Skipf("redis not available: %v", err)
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush test redis db %d: %v", dbIndex, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}
