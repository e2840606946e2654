package sessauth

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/varekai/sessauth/internal/keylock"
	"github.com/varekai/sessauth/password"
	"github.com/varekai/sessauth/session"
)

// Builder defines a public type used by sessauth APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client

	directory  UserDirectory
	sessions   session.Store
	challenges ChallengeStore
	auditSink  AuditSink
	keyedHash  KeyedHash
	now        func() time.Time

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis backs the default session and challenge stores with Redis.
// Explicitly supplied stores take precedence.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithUserDirectory sets the user-directory capability. Required.
func (b *Builder) WithUserDirectory(d UserDirectory) *Builder {
	b.directory = d
	return b
}

// WithSessionStore overrides the session store capability.
func (b *Builder) WithSessionStore(s session.Store) *Builder {
	b.sessions = s
	return b
}

// WithChallengeStore overrides the challenge store capability.
func (b *Builder) WithChallengeStore(c ChallengeStore) *Builder {
	b.challenges = c
	return b
}

// WithAuditSink sets the audit sink; events flow only when
// Config.Audit.Verbosity is above [AuditOff].
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithKeyedHash overrides the challenge-reply keyed hash. The default is
// [password.MAC].
func (b *Builder) WithKeyedHash(h KeyedHash) *Builder {
	b.keyedHash = h
	return b
}

// WithClock overrides the engine time source. Intended for tests.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build validates the configuration and assembles the [Engine]. A builder is
// single-use.
//
// Build may return an error when input validation fails.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}
	if b.directory == nil {
		return nil, errors.New("user directory required")
	}

	sessions := b.sessions
	if sessions == nil {
		if b.redis != nil {
			sessions = session.NewRedisStore(b.redis, b.config.Session.RedisPrefix)
		} else {
			sessions = session.NewMemoryStore()
		}
	}

	challenges := b.challenges
	if challenges == nil {
		if b.redis != nil {
			challenges = NewRedisChallengeStore(b.redis, b.config.Challenge.RedisPrefix, b.config.Challenge.MaxOutstanding)
		} else {
			challenges = NewMemoryChallengeStore(b.config.Challenge.MaxOutstanding)
		}
	}

	keyedHash := b.keyedHash
	if keyedHash == nil {
		keyedHash = password.MAC
	}

	now := b.now
	if now == nil {
		now = time.Now
	}

	var metrics *Metrics
	if b.config.Metrics.Enabled {
		metrics = newMetrics()
	}

	b.built = true
	return &Engine{
		config:     b.config,
		directory:  b.directory,
		sessions:   sessions,
		challenges: challenges,
		keyedHash:  keyedHash,
		audit:      newAuditDispatcher(b.config.Audit, b.auditSink),
		metrics:    metrics,
		locks:      &keylock.Map{},
		now:        now,
	}, nil
}
