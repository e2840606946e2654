package password

import (
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/blake2b"
)

const (
	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minKeyLength   uint32 = 16
	saltLength            = 16
	algorithmID           = "argon2id"

	// saltDomain separates login-derived salts from any other BLAKE2b use in
	// the module.
	saltDomain = "sessauth/login-salt/v1"
)

// Config defines a public type used by sessauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	KeyLength   uint32
}

// DefaultConfig returns the shipped Argon2id parameters.
func DefaultConfig() Config {
	return Config{
		Memory:      19 * 1024,
		Time:        2,
		Parallelism: 1,
		KeyLength:   32,
	}
}

// Hasher computes deterministic Argon2id password hashes with login-derived
// salts.
//
// Hasher instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Hasher struct {
	config Config
}

// NewHasher validates cfg and returns a [Hasher].
//
// NewHasher may return an error when input validation fails.
func NewHasher(cfg Config) (*Hasher, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return &Hasher{config: cfg}, nil
}

func validateConfig(cfg Config) error {
	if cfg.Memory < minMemoryKB {
		return fmt.Errorf("argon2 memory below minimum %d KB", minMemoryKB)
	}
	if cfg.Time < minTimeCost {
		return errors.New("argon2 time cost below minimum")
	}
	if cfg.Parallelism < minParallelism {
		return errors.New("argon2 parallelism below minimum")
	}
	if cfg.KeyLength < minKeyLength {
		return fmt.Errorf("argon2 key length below minimum %d", minKeyLength)
	}
	return nil
}

// Hash derives the stored password hash for login. The salt is a keyed
// BLAKE2b digest of the login, making the output reproducible by any party
// that knows login and password.
func (h *Hasher) Hash(login, password string) string {
	salt := loginSalt(login)

	digest := argon2.IDKey(
		[]byte(password),
		salt,
		h.config.Time,
		h.config.Memory,
		h.config.Parallelism,
		h.config.KeyLength,
	)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		h.config.Memory,
		h.config.Time,
		h.config.Parallelism,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(digest),
	)
}

func loginSalt(login string) []byte {
	mac, err := blake2b.New256([]byte(saltDomain))
	if err != nil {
		// Key is a short compile-time constant; New256 cannot reject it.
		panic(err)
	}
	mac.Write([]byte(login))
	sum := mac.Sum(nil)
	return sum[:saltLength]
}
