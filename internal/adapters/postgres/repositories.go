package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// SessionRepository

func (db *DB) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := db.Pool.QueryRow(ctx, `
		SELECT coalesce(data->>$2::text, ''), data ? $2::text FROM sessions
		WHERE id = $1 AND expires_at > now()
	`, sessionID, key).Scan(&value, &found)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, found, nil
}

// SetMany merges values into a live session or starts a new one when the
// stored session has expired.
func (db *DB) SetMany(ctx context.Context, sessionID string, values map[string]string, ttl time.Duration) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO sessions (id, data, expires_at, updated_at)
		VALUES ($1, $2::jsonb, now() + make_interval(secs => $3), now())
		ON CONFLICT (id) DO UPDATE SET
			data = CASE WHEN sessions.expires_at > now()
				THEN sessions.data || EXCLUDED.data
				ELSE EXCLUDED.data END,
			expires_at = EXCLUDED.expires_at,
			updated_at = now()
	`, sessionID, values, ttl.Seconds())
	return err
}

// SessionPruner

func (db *DB) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	tag, err := db.Pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
