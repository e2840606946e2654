package sessauth

import (
	"context"
	"sync"
	"time"

	"github.com/varekai/sessauth/internal"
)

// DefaultMaxChallenges bounds the in-memory challenge store.
const DefaultMaxChallenges = 10000

// MemoryChallengeStore is the bundled [ChallengeStore]: a bounded map of
// outstanding challenges with strict insertion-order FIFO eviction. A failed
// login never removes a challenge; it stays usable for further attempts until
// consumed by a successful login or evicted by newer issues.
//
// All methods are safe for concurrent use.
type MemoryChallengeStore struct {
	mu      sync.Mutex
	max     int
	idBytes int
	byID    map[string]Challenge
	// fifo holds ids in issue order. Consumed ids are left in place and
	// skipped at eviction time, so the head may be stale; byID is the source
	// of truth for membership and size. Consume compacts the queue when stale
	// entries outnumber live ones, keeping it bounded under consume-heavy
	// load that never reaches max.
	fifo  []string
	stale int
	now   func() time.Time
}

// NewMemoryChallengeStore returns a store holding at most max outstanding
// challenges (DefaultMaxChallenges when max <= 0).
func NewMemoryChallengeStore(max int) *MemoryChallengeStore {
	if max <= 0 {
		max = DefaultMaxChallenges
	}
	return &MemoryChallengeStore{
		max:     max,
		idBytes: internal.DefaultIDBytes,
		byID:    make(map[string]Challenge),
		now:     time.Now,
	}
}

// Issue generates a challenge with a unique id, evicting the oldest live
// entry first when the store is full. Id generation retries on collision
// without bound.
func (s *MemoryChallengeStore) Issue(_ context.Context) (Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id string
	for {
		candidate, err := internal.NewToken(s.idBytes)
		if err != nil {
			return Challenge{}, err
		}
		if _, exists := s.byID[candidate]; !exists {
			id = candidate
			break
		}
	}

	value, err := internal.NewToken(s.idBytes)
	if err != nil {
		return Challenge{}, err
	}

	if len(s.byID) >= s.max {
		s.evictOldest()
	}

	ch := Challenge{ID: id, Value: value, IssuedAt: s.now()}
	s.byID[id] = ch
	s.fifo = append(s.fifo, id)
	return ch, nil
}

// evictOldest removes the single oldest live challenge, discarding stale
// queue heads left behind by Consume. Caller holds s.mu.
func (s *MemoryChallengeStore) evictOldest() {
	for len(s.fifo) > 0 {
		id := s.fifo[0]
		s.fifo = s.fifo[1:]
		if _, live := s.byID[id]; live {
			delete(s.byID, id)
			return
		}
		s.stale--
	}
}

// compact drops stale queue entries, preserving issue order of the live
// ones. Caller holds s.mu.
func (s *MemoryChallengeStore) compact() {
	live := s.fifo[:0]
	for _, id := range s.fifo {
		if _, ok := s.byID[id]; ok {
			live = append(live, id)
		}
	}
	s.fifo = live
	s.stale = 0
}

// Lookup returns the challenge for id without removing it.
func (s *MemoryChallengeStore) Lookup(_ context.Context, challengeID string) (Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.byID[challengeID]
	if !ok {
		return Challenge{}, &ChallengeNotFoundError{ID: challengeID}
	}
	return ch, nil
}

// Consume removes and returns the challenge for id. Used exclusively by
// successful local login.
func (s *MemoryChallengeStore) Consume(_ context.Context, challengeID string) (Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.byID[challengeID]
	if !ok {
		return Challenge{}, &ChallengeNotFoundError{ID: challengeID}
	}
	delete(s.byID, challengeID)
	s.stale++
	if s.stale > len(s.byID) {
		s.compact()
	}
	return ch, nil
}

// Len reports the number of outstanding challenges.
func (s *MemoryChallengeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
