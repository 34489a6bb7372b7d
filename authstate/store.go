package authstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is an exported constant or variable used by the session engine.
var ErrRedisUnavailable = errors.New("redis unavailable")

// Store defines a public type used by shopauth APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewStore describes the newstore operation and its observable behavior.
//
// NewStore returns a Store keyed under prefix. A zero ttl means entries do
// not expire and are only removed by Reset.
func NewStore(rdb *redis.Client, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "bo"
	}
	return &Store{
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *Store) key(userLogin string) string {
	return fmt.Sprintf("%s:perm:%s", s.prefix, userLogin)
}

// SetPermissions replaces the persisted permission set for userLogin. The
// delete and rewrite run in one pipeline so a concurrent reader never sees
// a partially written set.
func (s *Store) SetPermissions(ctx context.Context, userLogin string, permissions []string) error {
	if s == nil || s.rdb == nil {
		return ErrRedisUnavailable
	}
	if userLogin == "" {
		return errors.New("user login empty")
	}

	key := s.key(userLogin)

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(permissions) > 0 {
			members := make([]interface{}, len(permissions))
			for i, p := range permissions {
				members[i] = p
			}
			pipe.SAdd(ctx, key, members...)
			if s.ttl > 0 {
				pipe.Expire(ctx, key, s.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return errors.Join(ErrRedisUnavailable, err)
	}
	return nil
}

// Permissions returns the persisted permission set for userLogin. A missing
// key yields an empty set, not an error.
func (s *Store) Permissions(ctx context.Context, userLogin string) ([]string, error) {
	if s == nil || s.rdb == nil {
		return nil, ErrRedisUnavailable
	}

	members, err := s.rdb.SMembers(ctx, s.key(userLogin)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Join(ErrRedisUnavailable, err)
	}
	return members, nil
}

// Reset drops the persisted permission set. Safe to call when nothing was
// ever written.
func (s *Store) Reset(ctx context.Context, userLogin string) error {
	if s == nil || s.rdb == nil {
		return ErrRedisUnavailable
	}
	if userLogin == "" {
		return nil
	}

	if err := s.rdb.Del(ctx, s.key(userLogin)).Err(); err != nil {
		return errors.Join(ErrRedisUnavailable, err)
	}
	return nil
}
