package sessauth

import (
	"context"
	"errors"
	"net/http"

	"github.com/varekai/sessauth/session"
)

// Connect resolves the request's candidate token against the endpoint's
// security scheme and reports the caller's authentication state.
//
// No candidate token, or a token with no live session, yields AuthNeeded with
// a freshly issued challenge (status 200). A live session whose login the
// directory no longer resolves yields Session_expired (status 440). Otherwise
// the existing token is reaffirmed unchanged — Connect never rotates.
func (e *Engine) Connect(ctx context.Context, scheme SecurityScheme, req Request) (*Outcome, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	token, ok := ResolveToken(scheme, req)
	if !ok {
		e.metricInc(MetricConnectAuthNeeded)
		e.auditEmit(ctx, AuditEvent{EventType: AuditConnectNeeded, Success: true})
		return e.authNeeded(ctx)
	}

	e.locks.Lock(token)
	defer e.locks.Unlock(token)

	sess, err := e.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			e.metricInc(MetricConnectAuthNeeded)
			e.auditEmit(ctx, AuditEvent{EventType: AuditConnectNeeded, Success: true})
			return e.authNeeded(ctx)
		}
		return nil, err
	}

	user, err := e.directory.FindUser(ctx, sess.Login)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.metricInc(MetricSessionExpired)
			e.auditEmit(ctx, AuditEvent{
				EventType: AuditSessionExpired,
				Login:     sess.Login,
				UserID:    sess.UserID,
				Error:     ErrorKind(ErrSessionExpired),
			})
			return reject(ErrSessionExpired), nil
		}
		return nil, err
	}

	result := &AuthResult{
		Login:    sess.Login,
		UserID:   sess.UserID,
		Token:    token,
		UserInfo: user.Info,
	}
	if user.Requirement.Kind == RequireForeign {
		result.ForeignInfo = &ForeignInfo{Provider: user.Requirement.Provider}
	}

	e.metricInc(MetricConnectOk)
	e.auditEmit(ctx, AuditEvent{
		EventType: AuditConnectOk,
		Login:     sess.Login,
		UserID:    sess.UserID,
		Success:   true,
	})

	return &Outcome{
		Kind:   ResultAuthOk,
		Status: http.StatusOK,
		Result: result,
		Token:  token,
	}, nil
}
