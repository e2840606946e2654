package sessauth

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/varekai/sessauth/federation"
	"github.com/varekai/sessauth/password"
)

// MemoryDirectory is the bundled [UserDirectory]: a table keyed by login
// storing either a password hash or a federation provider tag, never both.
// Federated-token checks delegate to an optional [federation.Registry].
//
// All methods are safe for concurrent use.
type MemoryDirectory struct {
	mu       sync.RWMutex
	users    map[string]UserRecord
	hasher   *password.Hasher
	registry *federation.Registry
}

// NewMemoryDirectory returns an empty directory. hasher may be nil, in which
// case local users must be created with a precomputed hash; registry may be
// nil, in which case every CheckForeign call is rejected.
func NewMemoryDirectory(hasher *password.Hasher, registry *federation.Registry) *MemoryDirectory {
	return &MemoryDirectory{
		users:    make(map[string]UserRecord),
		hasher:   hasher,
		registry: registry,
	}
}

// AddLocalUser creates a password-authenticated user and returns its id.
// A non-empty hash is stored as-is and takes precedence over plaintext;
// otherwise the plaintext password is hashed with a login-derived salt
// before storage and never retained.
//
// AddLocalUser returns [ErrUserAlreadyDefined] when the login exists and
// [ErrNoPasswordProvided] when neither a hash nor a password was supplied.
func (d *MemoryDirectory) AddLocalUser(login, hash, plaintext string, info any) (string, error) {
	if hash == "" {
		if plaintext == "" || d.hasher == nil {
			return "", ErrNoPasswordProvided
		}
		hash = d.hasher.Hash(login, plaintext)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.users[login]; exists {
		return "", ErrUserAlreadyDefined
	}

	userID := uuid.NewString()
	d.users[login] = UserRecord{
		Login:  login,
		UserID: userID,
		Requirement: AuthRequirement{
			Kind:         RequireLocal,
			PasswordHash: hash,
		},
		Info: info,
	}
	return userID, nil
}

// AddForeignUser creates a federated user bound to a provider tag and
// returns its id.
func (d *MemoryDirectory) AddForeignUser(login, provider string, info any) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.users[login]; exists {
		return "", ErrUserAlreadyDefined
	}

	userID := uuid.NewString()
	d.users[login] = UserRecord{
		Login:  login,
		UserID: userID,
		Requirement: AuthRequirement{
			Kind:     RequireForeign,
			Provider: provider,
		},
		Info: info,
	}
	return userID, nil
}

// FindUser implements [UserDirectory].
func (d *MemoryDirectory) FindUser(_ context.Context, login string) (UserRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[login]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return user, nil
}

// CheckForeign implements [UserDirectory] by delegating to the federation
// registry.
func (d *MemoryDirectory) CheckForeign(ctx context.Context, origin, token string) (ForeignIdentity, error) {
	if d.registry == nil {
		return ForeignIdentity{}, ErrInvalidSession
	}
	login, provider, err := d.registry.Check(ctx, origin, token)
	if err != nil {
		return ForeignIdentity{}, err
	}
	return ForeignIdentity{Login: login, Provider: provider}, nil
}
