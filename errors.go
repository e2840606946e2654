package sessauth

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrSessionExpired is returned by Connect when a live session references a
	// login the user directory no longer knows.
	ErrSessionExpired = errors.New("session expired")
	// ErrBadUserOrPassword is the uniform rejection for local logins: unknown
	// user, wrong login kind, or wrong challenge reply all map here so the
	// response does not leak which part failed.
	ErrBadUserOrPassword = errors.New("bad user or password")
	// ErrInvalidSession is returned when a request carries no usable session
	// token, or a foreign credential fails provider validation.
	ErrInvalidSession = errors.New("invalid session")
	// ErrChallengeNotFound is the match target for [ChallengeNotFoundError].
	ErrChallengeNotFound = errors.New("challenge not found or expired")
	// ErrTooManyLoginAttempts is reserved for integrators that layer login
	// throttling on top of the engine. No default path returns it.
	ErrTooManyLoginAttempts = errors.New("too many login attempts")
	// ErrUserAlreadyDefined is returned by [MemoryDirectory] when a login is
	// created twice.
	ErrUserAlreadyDefined = errors.New("user already defined")
	// ErrNoPasswordProvided is returned by [MemoryDirectory] when a local user
	// is created with neither a password hash nor a plaintext password.
	ErrNoPasswordProvided = errors.New("no password provided")
	// ErrUserNotFound is returned by [UserDirectory.FindUser] for unknown
	// logins. It never crosses the engine boundary raw; flows map it to the
	// nearest domain error.
	ErrUserNotFound = errors.New("user not found")
	// ErrEngineNotReady is returned when an Engine method is called on a nil
	// or unbuilt engine.
	ErrEngineNotReady = errors.New("engine not ready")
)

// ChallengeNotFoundError reports a local login referencing a challenge id that
// is not currently tracked (never issued, already consumed, or evicted).
// It matches [ErrChallengeNotFound] via errors.Is.
type ChallengeNotFoundError struct {
	ID string
}

func (e *ChallengeNotFoundError) Error() string {
	return fmt.Sprintf("challenge %q not found or expired", e.ID)
}

func (e *ChallengeNotFoundError) Unwrap() error {
	return ErrChallengeNotFound
}

// StatusSessionExpired is the non-standard HTTP status carried by
// Session_expired responses.
const StatusSessionExpired = 440

// ErrorKind maps a domain error to its stable wire identifier. Unknown errors
// map to Invalid_session rather than leaking internals.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrSessionExpired):
		return "Session_expired"
	case errors.Is(err, ErrBadUserOrPassword):
		return "Bad_user_or_password"
	case errors.Is(err, ErrChallengeNotFound):
		return "Challenge_not_found_or_expired"
	case errors.Is(err, ErrTooManyLoginAttempts):
		return "Too_many_login_attempts"
	case errors.Is(err, ErrUserAlreadyDefined):
		return "UserAlreadyDefined"
	case errors.Is(err, ErrNoPasswordProvided):
		return "NoPasswordProvided"
	default:
		return "Invalid_session"
	}
}

// ErrorStatus maps a domain error to the HTTP status its wire response
// carries.
func ErrorStatus(err error) int {
	if errors.Is(err, ErrSessionExpired) {
		return StatusSessionExpired
	}
	return http.StatusUnauthorized
}
