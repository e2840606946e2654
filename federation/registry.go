package federation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Provider describes one federation identity provider.
//
// Provider instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Provider struct {
	// Tag is the provider marker recorded against federated users in the
	// user directory; a token only authenticates users carrying the same
	// tag.
	Tag string
	// Secret is the HS256 key the provider signs tokens with.
	Secret []byte
	// Issuer, when set, is enforced against the token's iss claim.
	Issuer string
	// Leeway tolerates clock skew on exp/nbf validation.
	Leeway time.Duration
}

// CheckError reports a failed federated-token check with a transport status
// code and an optional human-readable message.
type CheckError struct {
	Code    int
	Message string
}

func (e *CheckError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("federation check failed (%d)", e.Code)
	}
	return fmt.Sprintf("federation check failed (%d): %s", e.Code, e.Message)
}

// Registry maps request origins to providers. Safe for concurrent use;
// registration normally happens once at startup.
type Registry struct {
	mu       sync.RWMutex
	byOrigin map[string]Provider
}

// NewRegistry returns an empty [Registry].
func NewRegistry() *Registry {
	return &Registry{byOrigin: make(map[string]Provider)}
}

// Register binds an origin to a provider.
//
// Register may return an error when input validation fails.
func (r *Registry) Register(origin string, p Provider) error {
	if origin == "" {
		return errors.New("empty origin")
	}
	if p.Tag == "" {
		return errors.New("provider tag required")
	}
	if len(p.Secret) == 0 {
		return errors.New("provider secret required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byOrigin[origin]; exists {
		return fmt.Errorf("origin %q already registered", origin)
	}
	r.byOrigin[origin] = p
	return nil
}

// Check validates a provider-issued token for origin and returns the local
// login (the token's subject) and the provider tag. Every failure is a
// *CheckError; the engine maps them all to Invalid_session.
func (r *Registry) Check(_ context.Context, origin, token string) (string, string, error) {
	r.mu.RLock()
	provider, ok := r.byOrigin[origin]
	r.mu.RUnlock()
	if !ok {
		return "", "", &CheckError{Code: http.StatusUnauthorized, Message: "unknown origin"}
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if provider.Leeway > 0 {
		options = append(options, jwt.WithLeeway(provider.Leeway))
	}
	if provider.Issuer != "" {
		options = append(options, jwt.WithIssuer(provider.Issuer))
	}

	parser := jwt.NewParser(options...)
	claims := &jwt.RegisteredClaims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return provider.Secret, nil
	})
	if err != nil {
		return "", "", &CheckError{Code: http.StatusUnauthorized, Message: err.Error()}
	}
	if !parsed.Valid {
		return "", "", &CheckError{Code: http.StatusUnauthorized, Message: "invalid token"}
	}
	if claims.Subject == "" {
		return "", "", &CheckError{Code: http.StatusUnauthorized, Message: "token carries no subject"}
	}

	return claims.Subject, provider.Tag, nil
}
