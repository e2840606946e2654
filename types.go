package sessauth

import (
	"context"
	"time"
)

// Challenge is a server-issued random value a client must combine with its
// password hash to prove identity without transmitting the secret itself.
// ID and Value are fixed-length printable strings; IssuedAt orders FIFO
// eviction.
type Challenge struct {
	ID       string
	Value    string
	IssuedAt time.Time
}

// RequirementKind selects the login flow accepted for an identity.
type RequirementKind uint8

const (
	// RequireLocal marks an identity authenticated by a challenge reply
	// keyed on its stored password hash.
	RequireLocal RequirementKind = iota
	// RequireForeign marks an identity authenticated by an externally-issued
	// provider token.
	RequireForeign
)

// AuthRequirement is the identity requirement resolved per login: either a
// local password hash or a federated-provider tag, never both.
type AuthRequirement struct {
	Kind RequirementKind

	// PasswordHash is set for RequireLocal.
	PasswordHash string
	// Provider is set for RequireForeign.
	Provider string
}

// UserRecord is the account record returned by [UserDirectory.FindUser].
//
// UserRecord instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type UserRecord struct {
	Login       string
	UserID      string
	Requirement AuthRequirement

	// Info is a deployment-bound payload echoed verbatim into AuthResult.
	Info any
}

// ForeignIdentity is the result of a successful federated-token check: the
// local login the token maps to and the tag of the provider that vouched for
// it.
type ForeignIdentity struct {
	Login    string
	Provider string
}

// UserDirectory is the capability that resolves logins to identity
// requirements and validates federated tokens. [MemoryDirectory] is the
// bundled default; production deployments typically implement it over their
// user database.
//
// FindUser returns [ErrUserNotFound] for unknown logins. CheckForeign returns
// any error to signal rejection; the engine maps every CheckForeign failure
// to Invalid_session.
type UserDirectory interface {
	FindUser(ctx context.Context, login string) (UserRecord, error)
	CheckForeign(ctx context.Context, origin, token string) (ForeignIdentity, error)
}

// ChallengeStore is the capability that tracks outstanding login challenges.
// Implementations bound their size and evict in strict insertion-order FIFO.
//
// Lookup returns a challenge without removing it; Consume removes it and is
// called exclusively on successful local login. Both return
// [ErrChallengeNotFound] (wrapped in a [ChallengeNotFoundError]) for ids not
// currently tracked.
type ChallengeStore interface {
	Issue(ctx context.Context) (Challenge, error)
	Lookup(ctx context.Context, challengeID string) (Challenge, error)
	Consume(ctx context.Context, challengeID string) (Challenge, error)
}

// LocalLogin proves a local identity: Reply must equal the configured keyed
// hash of the stored challenge value and the user's password hash.
type LocalLogin struct {
	Login       string `json:"login"`
	ChallengeID string `json:"challenge_id"`
	Reply       string `json:"reply"`
}

// ForeignLogin attaches a session for an externally-issued credential. Token
// is reused verbatim as the session token; the engine never mints its own.
type ForeignLogin struct {
	Origin string `json:"origin"`
	Token  string `json:"token"`
}

// LoginRequest is the tagged login union: exactly one of Local or Foreign is
// set. The JSON shape mirrors the wire body of POST /login.
type LoginRequest struct {
	Local   *LocalLogin   `json:"local,omitempty"`
	Foreign *ForeignLogin `json:"foreign,omitempty"`
}

// ForeignInfo is attached to AuthResult for federated identities.
type ForeignInfo struct {
	Provider string `json:"provider"`
	Origin   string `json:"origin,omitempty"`
}

// AuthResult is the successful response payload. Token is always the
// session's cookie/CSRF value and stays identical across repeated Connect
// calls until logout.
type AuthResult struct {
	Login       string       `json:"login"`
	UserID      string       `json:"user_id"`
	Token       string       `json:"token"`
	UserInfo    any          `json:"user_info"`
	ForeignInfo *ForeignInfo `json:"foreign_info,omitempty"`
}

// KeyedHash computes the deterministic digest a client must present as its
// challenge reply: digest = KeyedHash(challenge value, password hash).
// The default is [password.MAC] (keyed BLAKE2b-256, hex).
type KeyedHash func(challenge, secret string) string
