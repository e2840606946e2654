package sessauth

import (
	"context"
	"net/http"
	"time"

	"github.com/varekai/sessauth/internal/keylock"
	"github.com/varekai/sessauth/session"
)

// Engine defines a public type used by sessauth APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config     Config
	directory  UserDirectory
	sessions   session.Store
	challenges ChallengeStore
	keyedHash  KeyedHash
	audit      *auditDispatcher
	metrics    *Metrics
	locks      *keylock.Map
	now        func() time.Time
}

// TokenConfig exposes the deployment's auth-header binding so transport
// adapters can shape responses.
func (e *Engine) TokenConfig() TokenConfig {
	if e == nil {
		return TokenConfig{}
	}
	return e.config.Token
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports the number of audit events shed under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) auditEmit(ctx context.Context, event AuditEvent) {
	if e == nil || e.audit == nil {
		return
	}
	event.Timestamp = e.now()
	e.audit.Emit(ctx, event)
}

// issueChallenge wraps ChallengeStore.Issue with metrics.
func (e *Engine) issueChallenge(ctx context.Context) (Challenge, error) {
	ch, err := e.challenges.Issue(ctx)
	if err != nil {
		return Challenge{}, err
	}
	e.metricInc(MetricChallengeIssued)
	return ch, nil
}

// authNeeded builds the AuthNeeded outcome every token-less branch returns:
// a fresh challenge, status 200, auth header bound with no token.
func (e *Engine) authNeeded(ctx context.Context) (*Outcome, error) {
	ch, err := e.issueChallenge(ctx)
	if err != nil {
		return nil, err
	}
	return &Outcome{
		Kind:      ResultAuthNeeded,
		Status:    http.StatusOK,
		Challenge: &ch,
	}, nil
}

// reject builds a domain-error outcome with the wire status for err.
func reject(err error) *Outcome {
	return &Outcome{
		Kind:   ResultError,
		Status: ErrorStatus(err),
		Err:    err,
	}
}
