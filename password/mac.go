package password

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// macKeyLimit caps the BLAKE2b key at the 64 bytes the primitive accepts;
// longer secrets are pre-hashed.
const macKeyLimit = 64

// MAC is the default keyed hash for challenge replies: BLAKE2b-256 of the
// challenge value keyed by the secret, hex encoded. Deterministic and
// fixed-length, so replies compare in constant time.
func MAC(challenge, secret string) string {
	key := []byte(secret)
	if len(key) > macKeyLimit {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	mac, err := blake2b.New256(key)
	if err != nil {
		// Key length is bounded above; New256 cannot reject it.
		panic(err)
	}
	mac.Write([]byte(challenge))
	return hex.EncodeToString(mac.Sum(nil))
}
