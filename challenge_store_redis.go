package sessauth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/varekai/sessauth/internal"
	"github.com/varekai/sessauth/internal/stores"
)

// RedisChallengeStore adapts the Redis-backed bounded FIFO store in
// internal/stores to the [ChallengeStore] capability. Eviction order and the
// size bound are enforced server-side in one atomic script per insert.
type RedisChallengeStore struct {
	store   *stores.ChallengeStore
	idBytes int
	now     func() time.Time
}

// NewRedisChallengeStore returns a Redis-backed [ChallengeStore] bounded at
// max outstanding challenges (DefaultMaxChallenges when max <= 0).
func NewRedisChallengeStore(client redis.UniversalClient, prefix string, max int) *RedisChallengeStore {
	if max <= 0 {
		max = DefaultMaxChallenges
	}
	return &RedisChallengeStore{
		store:   stores.NewChallengeStore(client, prefix, max),
		idBytes: internal.DefaultIDBytes,
		now:     time.Now,
	}
}

// Issue implements [ChallengeStore]. Id collisions are detected by the
// insert script and regenerated without bound.
func (s *RedisChallengeStore) Issue(ctx context.Context) (Challenge, error) {
	for {
		id, err := internal.NewToken(s.idBytes)
		if err != nil {
			return Challenge{}, err
		}
		value, err := internal.NewToken(s.idBytes)
		if err != nil {
			return Challenge{}, err
		}

		issued := s.now()
		inserted, err := s.store.Insert(ctx, &stores.ChallengeRecord{
			ID:       id,
			Value:    value,
			IssuedAt: issued.UnixNano(),
		})
		if err != nil {
			return Challenge{}, err
		}
		if inserted {
			return Challenge{ID: id, Value: value, IssuedAt: issued}, nil
		}
	}
}

// Lookup implements [ChallengeStore].
func (s *RedisChallengeStore) Lookup(ctx context.Context, challengeID string) (Challenge, error) {
	rec, err := s.store.Lookup(ctx, challengeID)
	return adaptChallenge(challengeID, rec, err)
}

// Consume implements [ChallengeStore].
func (s *RedisChallengeStore) Consume(ctx context.Context, challengeID string) (Challenge, error) {
	rec, err := s.store.Consume(ctx, challengeID)
	return adaptChallenge(challengeID, rec, err)
}

// Len reports the number of tracked challenges.
func (s *RedisChallengeStore) Len(ctx context.Context) (int, error) {
	return s.store.Len(ctx)
}

func adaptChallenge(id string, rec *stores.ChallengeRecord, err error) (Challenge, error) {
	if err != nil {
		if errors.Is(err, stores.ErrChallengeNotFound) {
			return Challenge{}, &ChallengeNotFoundError{ID: id}
		}
		return Challenge{}, err
	}
	return Challenge{
		ID:       rec.ID,
		Value:    rec.Value,
		IssuedAt: time.Unix(0, rec.IssuedAt),
	}, nil
}
