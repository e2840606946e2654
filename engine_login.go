package sessauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
)

// Login authenticates a local challenge reply or a federated credential and
// mints (or attaches) a session. Local rejections are deliberately uniform:
// unknown user, wrong login kind, and wrong reply all return
// Bad_user_or_password so the response does not reveal which check failed.
func (e *Engine) Login(ctx context.Context, req LoginRequest) (*Outcome, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	switch {
	case req.Local != nil:
		return e.loginLocal(ctx, req.Local)
	case req.Foreign != nil:
		return e.loginForeign(ctx, req.Foreign)
	default:
		e.metricInc(MetricLoginFailure)
		return reject(ErrBadUserOrPassword), nil
	}
}

func (e *Engine) loginLocal(ctx context.Context, in *LocalLogin) (*Outcome, error) {
	e.locks.Lock(in.Login)
	defer e.locks.Unlock(in.Login)

	user, err := e.directory.FindUser(ctx, in.Login)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return e.rejectLocal(ctx, in, ErrBadUserOrPassword), nil
		}
		return nil, err
	}
	if user.Requirement.Kind != RequireLocal {
		return e.rejectLocal(ctx, in, ErrBadUserOrPassword), nil
	}

	challenge, err := e.challenges.Lookup(ctx, in.ChallengeID)
	if err != nil {
		if errors.Is(err, ErrChallengeNotFound) {
			return e.rejectLocal(ctx, in, &ChallengeNotFoundError{ID: in.ChallengeID}), nil
		}
		return nil, err
	}

	expected := e.keyedHash(challenge.Value, user.Requirement.PasswordHash)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(in.Reply)) != 1 {
		// The challenge stays tracked: the client may retry against the same
		// id until it is consumed by a success or evicted FIFO.
		return e.rejectLocal(ctx, in, ErrBadUserOrPassword), nil
	}

	if _, err := e.challenges.Consume(ctx, in.ChallengeID); err != nil && !errors.Is(err, ErrChallengeNotFound) {
		return nil, err
	}

	sess, err := e.sessions.CreateSession(ctx, in.Login, user.UserID)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.auditEmit(ctx, AuditEvent{
		EventType:   AuditLoginSuccess,
		Login:       in.Login,
		UserID:      user.UserID,
		ChallengeID: in.ChallengeID,
		Success:     true,
	})

	return &Outcome{
		Kind:   ResultAuthOk,
		Status: http.StatusOK,
		Result: &AuthResult{
			Login:    in.Login,
			UserID:   user.UserID,
			Token:    sess.Token,
			UserInfo: user.Info,
		},
		Token: sess.Token,
	}, nil
}

func (e *Engine) rejectLocal(ctx context.Context, in *LocalLogin, err error) *Outcome {
	e.metricInc(MetricLoginFailure)
	e.auditEmit(ctx, AuditEvent{
		EventType:   AuditLoginFailure,
		Login:       in.Login,
		ChallengeID: in.ChallengeID,
		Error:       ErrorKind(err),
	})
	return reject(err)
}

func (e *Engine) loginForeign(ctx context.Context, in *ForeignLogin) (*Outcome, error) {
	e.locks.Lock(in.Token)
	defer e.locks.Unlock(in.Token)

	// Every CheckForeign failure maps to Invalid_session; the provider's
	// code/message reaches the audit trail, never the caller.
	identity, err := e.directory.CheckForeign(ctx, in.Origin, in.Token)
	if err != nil {
		e.metricInc(MetricForeignLoginFailure)
		e.auditEmit(ctx, AuditEvent{
			EventType: AuditForeignFailure,
			Origin:    in.Origin,
			Error:     err.Error(),
		})
		return reject(ErrInvalidSession), nil
	}

	user, err := e.directory.FindUser(ctx, identity.Login)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return e.rejectForeign(ctx, in, identity.Login), nil
		}
		return nil, err
	}
	if user.Requirement.Kind != RequireForeign || user.Requirement.Provider != identity.Provider {
		return e.rejectForeign(ctx, in, identity.Login), nil
	}

	// The provider-issued credential is the session token, verbatim.
	if err := e.sessions.AddSession(ctx, in.Token, user.UserID); err != nil {
		return nil, err
	}

	e.metricInc(MetricForeignLoginSuccess)
	e.auditEmit(ctx, AuditEvent{
		EventType: AuditForeignSuccess,
		Login:     identity.Login,
		UserID:    user.UserID,
		Origin:    in.Origin,
		Success:   true,
	})

	return &Outcome{
		Kind:   ResultAuthOk,
		Status: http.StatusOK,
		Result: &AuthResult{
			Login:    identity.Login,
			UserID:   user.UserID,
			Token:    in.Token,
			UserInfo: user.Info,
			ForeignInfo: &ForeignInfo{
				Provider: user.Requirement.Provider,
				Origin:   in.Origin,
			},
		},
		Token: in.Token,
	}, nil
}

func (e *Engine) rejectForeign(ctx context.Context, in *ForeignLogin, login string) *Outcome {
	e.metricInc(MetricForeignLoginFailure)
	e.auditEmit(ctx, AuditEvent{
		EventType: AuditForeignFailure,
		Login:     login,
		Origin:    in.Origin,
		Error:     ErrorKind(ErrBadUserOrPassword),
	})
	return reject(ErrBadUserOrPassword)
}
