package stores

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrChallengeNotFound is returned for ids not currently tracked.
	ErrChallengeNotFound = errors.New("challenge not found")
	// ErrChallengeBackend wraps Redis transport failures.
	ErrChallengeBackend = errors.New("challenge backend unavailable")
	// ErrChallengeCorrupt is returned when a stored record fails to parse.
	ErrChallengeCorrupt = errors.New("challenge record corrupt")
)

// ChallengeRecord is the stored shape of one outstanding challenge.
type ChallengeRecord struct {
	ID       string
	Value    string
	IssuedAt int64 // unix nanoseconds
}

// insertChallengeScript inserts a challenge and enforces the bound in one
// atomic step. KEYS[1] is the record hash, KEYS[2] the FIFO order list.
// Consumed ids leave stale list entries behind; the eviction loop pops heads
// until the hash is back under ARGV[3], so a stale head costs one extra LPOP
// and nothing else. Returns 0 on id collision.
const insertChallengeScript = `
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 1 then
  return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2])
redis.call("RPUSH", KEYS[2], ARGV[1])
while redis.call("HLEN", KEYS[1]) > tonumber(ARGV[3]) do
  local old = redis.call("LPOP", KEYS[2])
  if not old then
    break
  end
  redis.call("HDEL", KEYS[1], old)
end
return 1
`

// consumeChallengeScript atomically reads and removes a record, returning
// false when the id is not tracked.
const consumeChallengeScript = `
local data = redis.call("HGET", KEYS[1], ARGV[1])
if not data then
  return false
end
redis.call("HDEL", KEYS[1], ARGV[1])
return data
`

var (
	insertChallengeLua  = redis.NewScript(insertChallengeScript)
	consumeChallengeLua = redis.NewScript(consumeChallengeScript)
)

// ChallengeStore is the Redis-backed bounded FIFO challenge store.
type ChallengeStore struct {
	redis  redis.UniversalClient
	prefix string
	max    int
}

// NewChallengeStore returns a store bounded at max outstanding challenges
// under the given key prefix ("chal" when empty).
func NewChallengeStore(client redis.UniversalClient, prefix string, max int) *ChallengeStore {
	if prefix == "" {
		prefix = "chal"
	}
	return &ChallengeStore{
		redis:  client,
		prefix: prefix,
		max:    max,
	}
}

func (s *ChallengeStore) recordsKey() string { return s.prefix + ":records" }
func (s *ChallengeStore) orderKey() string   { return s.prefix + ":order" }

// Insert stores a record, evicting oldest entries past the bound. It reports
// false when the id already exists so the caller can regenerate.
func (s *ChallengeStore) Insert(ctx context.Context, rec *ChallengeRecord) (bool, error) {
	res, err := insertChallengeLua.Run(
		ctx,
		s.redis,
		[]string{s.recordsKey(), s.orderKey()},
		rec.ID,
		encodeChallenge(rec),
		s.max,
	).Int64()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrChallengeBackend, err)
	}
	return res == 1, nil
}

// Lookup returns a record without removing it.
func (s *ChallengeStore) Lookup(ctx context.Context, challengeID string) (*ChallengeRecord, error) {
	data, err := s.redis.HGet(ctx, s.recordsKey(), challengeID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrChallengeBackend, err)
	}
	return decodeChallenge(challengeID, data)
}

// Consume removes and returns a record.
func (s *ChallengeStore) Consume(ctx context.Context, challengeID string) (*ChallengeRecord, error) {
	res, err := consumeChallengeLua.Run(ctx, s.redis, []string{s.recordsKey()}, challengeID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrChallengeBackend, err)
	}
	data, ok := res.(string)
	if !ok {
		return nil, ErrChallengeNotFound
	}
	return decodeChallenge(challengeID, data)
}

// Len reports the number of tracked challenges.
func (s *ChallengeStore) Len(ctx context.Context) (int, error) {
	n, err := s.redis.HLen(ctx, s.recordsKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrChallengeBackend, err)
	}
	return int(n), nil
}

// encodeChallenge packs issue time and value as "<nanos>|<value>". Values are
// base64url and never contain the separator.
func encodeChallenge(rec *ChallengeRecord) string {
	return strconv.FormatInt(rec.IssuedAt, 10) + "|" + rec.Value
}

func decodeChallenge(id, data string) (*ChallengeRecord, error) {
	at, value, ok := strings.Cut(data, "|")
	if !ok {
		return nil, ErrChallengeCorrupt
	}
	nanos, err := strconv.ParseInt(at, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChallengeCorrupt, err)
	}
	return &ChallengeRecord{ID: id, Value: value, IssuedAt: nanos}, nil
}
