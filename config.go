package sessauth

import "errors"

// Config defines a public type used by sessauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Challenge ChallengeConfig
	Session   SessionConfig
	Token     TokenConfig
	Audit     AuditConfig
	Metrics   MetricsConfig
}

/*
====================================
CHALLENGE CONFIG
====================================
*/

// ChallengeConfig defines a public type used by sessauth APIs.
//
// ChallengeConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ChallengeConfig struct {
	// MaxOutstanding bounds the challenge store; the oldest challenge is
	// evicted FIFO past the bound.
	MaxOutstanding int
	// RedisPrefix namespaces challenge keys when the store is Redis-backed.
	RedisPrefix string
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by sessauth APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	// RedisPrefix namespaces session keys when the store is Redis-backed.
	RedisPrefix string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditVerbosity gates which engine decisions reach the audit sink.
type AuditVerbosity uint8

const (
	// AuditOff disables auditing entirely (the default).
	AuditOff AuditVerbosity = iota
	// AuditRejections emits rejection paths only.
	AuditRejections
	// AuditAll emits every terminal decision.
	AuditAll
)

// AuditConfig defines a public type used by sessauth APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Verbosity  AuditVerbosity
	BufferSize int
	// DropIfFull sheds events instead of blocking flows when the buffer is
	// full; drops are counted (see Engine.AuditDropped).
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by sessauth APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Challenge: ChallengeConfig{
			MaxOutstanding: DefaultMaxChallenges,
			RedisPrefix:    "chal",
		},
		Session: SessionConfig{
			RedisPrefix: "sess",
		},
		Token: TokenConfig{
			Mode: TokenModeCookie,
			Name: "sessauth",
		},
		Audit: AuditConfig{
			Verbosity:  AuditOff,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// DefaultConfig returns the shipped defaults: cookie token transport,
// 10 000 outstanding challenges, auditing off, metrics on.
func DefaultConfig() Config {
	return defaultConfig()
}

func validateConfig(cfg Config) error {
	if cfg.Challenge.MaxOutstanding <= 0 {
		return errors.New("challenge MaxOutstanding must be positive")
	}
	if cfg.Token.Name == "" {
		return errors.New("token name required")
	}
	switch cfg.Token.Mode {
	case TokenModeCookie, TokenModeCSRF:
	default:
		return errors.New("unknown token mode")
	}
	return nil
}
