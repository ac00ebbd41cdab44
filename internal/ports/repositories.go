package ports

import (
	"context"
	"time"
)

// SessionRepository stores string values per session id. Values expire ttl
// after they were last written.
type SessionRepository interface {
	Get(ctx context.Context, sessionID, key string) (value string, found bool, err error)
	SetMany(ctx context.Context, sessionID string, values map[string]string, ttl time.Duration) error
}

// SessionPruner is implemented by repositories that need explicit expiry.
type SessionPruner interface {
	PruneExpired(ctx context.Context, now time.Time) (removed int64, err error)
}
