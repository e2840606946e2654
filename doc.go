// Package sessauth provides a challenge-response session authentication engine
// with anti-replay login challenges, opaque session tokens, federated-identity
// logins, and pluggable user-directory, session-store, and challenge-store
// backends (in-memory defaults, Redis implementations included).
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// sessauth is the public surface. It exposes [Engine], [Builder], [Config],
// the capability interfaces ([UserDirectory], [ChallengeStore],
// [session.Store]), and value types (Challenge, AuthResult, SecurityScheme).
// Supporting implementations live under session/, password/, federation/, and
// internal/.
//
// # What this package must NOT do
//
//   - Expose Redis clients, record encodings, or store internals in its
//     public API.
//   - Speak HTTP. Transport semantics (cookies, CSRF headers, statuses) are
//     translated by the middleware package; the engine only reads the
//     transport-neutral [Request] capability and returns an [Outcome].
//   - Enforce login rate limits. [ErrTooManyLoginAttempts] is reserved for
//     integrators; no default path returns it.
//
// # Protocol contract
//
// Connect, Login, and Logout are the only three flows. A session is valid iff
// it is present in the session store; tokens are never rotated on Connect. A
// failed local login leaves its challenge in place so the client can retry
// without re-fetching; only a successful login consumes it.
package sessauth
