package sessauth

import (
	"context"
	"errors"

	"github.com/varekai/sessauth/session"
)

// Logout destroys the caller's session and hands back a fresh challenge.
// Requests with no candidate token or an unknown token are rejected with
// Invalid_session. The response binds the auth header with no token: cookie
// transports clear the cookie, CSRF transports still advertise the header
// name but carry no value.
func (e *Engine) Logout(ctx context.Context, scheme SecurityScheme, req Request) (*Outcome, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	token, ok := ResolveToken(scheme, req)
	if !ok {
		return e.rejectLogout(ctx, ""), nil
	}

	e.locks.Lock(token)
	defer e.locks.Unlock(token)

	sess, err := e.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return e.rejectLogout(ctx, ""), nil
		}
		return nil, err
	}

	// Owner-checked by the store: a token can only remove its own session.
	if err := e.sessions.RemoveSession(ctx, sess.UserID, token); err != nil {
		return nil, err
	}

	e.metricInc(MetricLogout)
	e.auditEmit(ctx, AuditEvent{
		EventType: AuditLogout,
		Login:     sess.Login,
		UserID:    sess.UserID,
		Success:   true,
	})

	return e.authNeeded(ctx)
}

func (e *Engine) rejectLogout(ctx context.Context, login string) *Outcome {
	e.metricInc(MetricLogoutRejected)
	e.auditEmit(ctx, AuditEvent{
		EventType: AuditLogoutRejected,
		Login:     login,
		Error:     ErrorKind(ErrInvalidSession),
	})
	return reject(ErrInvalidSession)
}
