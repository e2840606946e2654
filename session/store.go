package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/varekai/sessauth/internal"
)

// ErrSessionNotFound is returned by lookups for tokens with no live session.
var ErrSessionNotFound = errors.New("session not found")

// Store is the session persistence capability. [MemoryStore] is the bundled
// default; [RedisStore] backs multi-process deployments. Implementations may
// be I/O-bound, so every operation takes a context.
type Store interface {
	// AddSession binds a session directly to a caller-supplied token, used
	// for federated logins where the token is the externally-issued
	// credential. Login is left empty.
	AddSession(ctx context.Context, token, userID string) error
	// CreateSession mints a fresh unique token and stores a new session for
	// login/userID.
	CreateSession(ctx context.Context, login, userID string) (*Session, error)
	// GetSession looks up a session by token, refreshing LastAccess on hit.
	GetSession(ctx context.Context, token string) (*Session, error)
	// RemoveSession deletes the session for token only when its owner
	// matches userID; otherwise it is a no-op and returns nil.
	RemoveSession(ctx context.Context, userID, token string) error
	// SetVariable writes one session variable.
	SetVariable(ctx context.Context, token, key, value string) error
}

// MemoryStore is the bundled in-memory [Store]. Safe for concurrent use.
type MemoryStore struct {
	mu         sync.Mutex
	byToken    map[string]*Session
	tokenBytes int
	now        func() time.Time
}

// NewMemoryStore returns an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byToken:    make(map[string]*Session),
		tokenBytes: internal.DefaultIDBytes,
		now:        time.Now,
	}
}

// AddSession implements [Store]. An existing session under the same token is
// replaced: re-presenting a provider credential re-attaches the session.
func (s *MemoryStore) AddSession(_ context.Context, token, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byToken[token] = &Session{
		UserID:     userID,
		Token:      token,
		Variables:  make(map[string]string),
		LastAccess: s.now(),
	}
	return nil
}

// CreateSession implements [Store]. Token generation retries on collision
// without bound.
func (s *MemoryStore) CreateSession(_ context.Context, login, userID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var token string
	for {
		candidate, err := internal.NewToken(s.tokenBytes)
		if err != nil {
			return nil, err
		}
		if _, exists := s.byToken[candidate]; !exists {
			token = candidate
			break
		}
	}

	sess := &Session{
		Login:      login,
		UserID:     userID,
		Token:      token,
		Variables:  make(map[string]string),
		LastAccess: s.now(),
	}
	s.byToken[token] = sess
	return sess.clone(), nil
}

// GetSession implements [Store].
func (s *MemoryStore) GetSession(_ context.Context, token string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byToken[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.LastAccess = s.now()
	return sess.clone(), nil
}

// RemoveSession implements [Store].
func (s *MemoryStore) RemoveSession(_ context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byToken[token]
	if !ok || sess.UserID != userID {
		return nil
	}
	delete(s.byToken, token)
	return nil
}

// SetVariable implements [Store].
func (s *MemoryStore) SetVariable(_ context.Context, token, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byToken[token]
	if !ok {
		return ErrSessionNotFound
	}
	sess.Variables[key] = value
	return nil
}

// Len reports the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byToken)
}
