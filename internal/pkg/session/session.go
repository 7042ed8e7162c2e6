package session

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/storage/redis"

	"github.com/tahlil-one/tahlil/internal/pkg/cache"
	"github.com/tahlil-one/tahlil/internal/pkg/env"
)

// LimiterDatabase is the Redis database used for rate limiter counters (cache uses DB 0).
const LimiterDatabase = 1

// NewRedisStorage returns fiber storage on the cache server, in its own database.
func NewRedisStorage(database int) fiber.Storage {
	// Get Redis client configuration from existing cache setup
	cacheClient := cache.GetClient()
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		// Prefer password from the underlying client if present
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: database,
		Reset:    false,
	})
}

// ExpiredSessionRemover deletes sessions that expired before a point in time.
type ExpiredSessionRemover interface {
	DeleteExpired(before time.Time) (int64, error)
}

// StartCleanup removes expired sessions every interval until ctx is done.
func StartCleanup(ctx context.Context, sessions ExpiredSessionRemover, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				PurgeExpired(sessions, time.Now().UTC())
			}
		}
	}()
}

// PurgeExpired runs one cleanup pass and returns the number of removed sessions.
func PurgeExpired(sessions ExpiredSessionRemover, now time.Time) int64 {
	n, err := sessions.DeleteExpired(now)
	if err != nil {
		log.Errorf("[Session] Failed to delete expired sessions: %v", err)
		return 0
	}
	if n > 0 {
		log.Infof("[Session] Deleted %d expired sessions", n)
	}
	return n
}
