// Package locks provides a best-effort single-writer lock per session,
// layered in front of the repository's version guard. The lock keeps a
// double-submitting client from burning two provider calls; the version guard
// is what actually prevents a lost update if the lock ever fails open.
package locks

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrAlreadyLocked is returned when another request holds the session.
var ErrAlreadyLocked = errors.New("session is already being processed")

type SessionLocker struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionLocker wraps a redis client. The TTL bounds how long a crashed
// holder can block a session; it must exceed the worst-case provider
// fallback-chain latency.
func NewSessionLocker(rdb *redis.Client, ttl time.Duration) *SessionLocker {
	return &SessionLocker{rdb: rdb, ttl: ttl}
}

func lockKey(sessionID string) string {
	return "interview:lock:" + sessionID
}

// Acquire takes the lock or returns ErrAlreadyLocked. The returned release
// function is safe to defer; it only deletes the key this call created.
func (l *SessionLocker) Acquire(ctx context.Context, sessionID string) (func(), error) {
	key := lockKey(sessionID)
	ok, err := l.rdb.SetNX(ctx, key, "1", l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyLocked
	}
	return func() {
		// Release uses a fresh context: the request context may already be
		// cancelled and the lock must still be freed.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		l.rdb.Del(releaseCtx, key)
	}, nil
}
