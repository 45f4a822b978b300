package ratelimit

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/redis/v3"
)

// KeyPrefix namespaces limiter counters inside a shared Redis database.
const KeyPrefix = "skatepark:limiter:"

// NewRedisStorage backs fiber's limiter with Redis so counters are shared
// between server instances. The driver panics when its first ping fails;
// that is returned as an error instead.
func NewRedisStorage(addr string, db int) (store *redis.Storage, err error) {
	defer func() {
		if r := recover(); r != nil {
			store, err = nil, fmt.Errorf("failed to connect to redis at %s: %v", addr, r)
		}
	}()

	return redis.New(redis.Config{
		Addrs:    []string{addr},
		Database: db,
	}), nil
}

// ClientKey is the limiter key of the requesting client.
func ClientKey(c *fiber.Ctx) string {
	return KeyPrefix + c.IP()
}
