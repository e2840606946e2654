package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/varekai/sessauth/internal"
)

// ErrRedisUnavailable wraps every Redis transport failure surfaced by
// [RedisStore].
var ErrRedisUnavailable = errors.New("redis unavailable")

// ErrSessionCorrupt is returned when a stored record fails to decode.
var ErrSessionCorrupt = errors.New("session record corrupt")

// deleteIfOwnerScript removes a session only when the owner id embedded in
// the binary record matches ARGV[1]. It reads the record header in place
// (version byte, one-byte owner length, owner bytes) instead of round-
// tripping the blob to the client.
const deleteIfOwnerScript = `
local data = redis.call("GET", KEYS[1])
if not data then
  return 0
end
local version = string.byte(data, 1)
if version ~= 1 then
  return -1
end
local uid_len = string.byte(data, 2)
if not uid_len then
  return -1
end
local uid = string.sub(data, 3, 2 + uid_len)
if uid ~= ARGV[1] then
  return 0
end
redis.call("DEL", KEYS[1])
return 1
`

var deleteIfOwnerLua = redis.NewScript(deleteIfOwnerScript)

// RedisStore is a Redis-backed [Store] for multi-process deployments.
// Records use the binary codec in this package; the token is embedded in the
// key, never in the record.
type RedisStore struct {
	redis      redis.UniversalClient
	prefix     string
	tokenBytes int
	now        func() time.Time
}

// NewRedisStore returns a [RedisStore] with the given key prefix ("sess"
// when empty).
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "sess"
	}
	return &RedisStore{
		redis:      client,
		prefix:     prefix,
		tokenBytes: internal.DefaultIDBytes,
		now:        time.Now,
	}
}

func (s *RedisStore) key(token string) string {
	return s.prefix + ":" + token
}

// AddSession implements [Store].
func (s *RedisStore) AddSession(ctx context.Context, token, userID string) error {
	encoded, err := Encode(&Session{
		UserID:     userID,
		Token:      token,
		Variables:  map[string]string{},
		LastAccess: s.now(),
	})
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, s.key(token), encoded, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// CreateSession implements [Store]. Uniqueness is enforced with SETNX;
// generation retries on collision without bound.
func (s *RedisStore) CreateSession(ctx context.Context, login, userID string) (*Session, error) {
	for {
		token, err := internal.NewToken(s.tokenBytes)
		if err != nil {
			return nil, err
		}

		sess := &Session{
			Login:      login,
			UserID:     userID,
			Token:      token,
			Variables:  map[string]string{},
			LastAccess: s.now(),
		}
		encoded, err := Encode(sess)
		if err != nil {
			return nil, err
		}

		stored, err := s.redis.SetNX(ctx, s.key(token), encoded, 0).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		if stored {
			return sess, nil
		}
	}
}

// GetSession implements [Store]. The LastAccess refresh writes back with
// SET XX, so a session removed between the read and the refresh stays
// removed; the lookup then reports it gone. Concurrent refreshes of the same
// token can only lose a timestamp update.
func (s *RedisStore) GetSession(ctx context.Context, token string) (*Session, error) {
	data, err := s.redis.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	sess, err := Decode(token, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionCorrupt, err)
	}

	sess.LastAccess = s.now()
	refreshed, err := Encode(sess)
	if err != nil {
		return nil, err
	}
	stored, err := s.redis.SetXX(ctx, s.key(token), refreshed, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if !stored {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// RemoveSession implements [Store] via an owner-checking Lua script, so the
// compare-and-delete is atomic against concurrent logins on the same token.
func (s *RedisStore) RemoveSession(ctx context.Context, userID, token string) error {
	res, err := deleteIfOwnerLua.Run(ctx, s.redis, []string{s.key(token)}, userID).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if res == -1 {
		return ErrSessionCorrupt
	}
	// 0 covers both "absent" and "owner mismatch": a silent no-op either way.
	return nil
}

// SetVariable implements [Store].
func (s *RedisStore) SetVariable(ctx context.Context, token, key, value string) error {
	data, err := s.redis.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	sess, err := Decode(token, data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSessionCorrupt, err)
	}
	sess.Variables[key] = value

	encoded, err := Encode(sess)
	if err != nil {
		return err
	}
	stored, err := s.redis.SetXX(ctx, s.key(token), encoded, 0).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if !stored {
		return ErrSessionNotFound
	}
	return nil
}
