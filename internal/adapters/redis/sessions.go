package redis

import (
	"context"
	"errors"
	"sort"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "brandscope:session:"

// Sessions stores each session as a hash that expires as a whole.
type Sessions struct {
	rdb goredis.UniversalClient
}

func NewSessions(rdb goredis.UniversalClient) *Sessions {
	return &Sessions{rdb: rdb}
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func sessionKey(id string) string { return keyPrefix + id }

func (s *Sessions) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	v, err := s.rdb.HGet(ctx, sessionKey(sessionID), key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *Sessions) SetMany(ctx context.Context, sessionID string, values map[string]string, ttl time.Duration) error {
	key := sessionKey(sessionID)
	args := fieldArgs(values)
	_, err := s.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.HSet(ctx, key, args...)
		p.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

// fieldArgs flattens values in key order so commands are deterministic.
func fieldArgs(values map[string]string) []any {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		args = append(args, k, values[k])
	}
	return args
}
