package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// seedSaltLen is the number of random bytes mixed into a secret seed.
const seedSaltLen = 16

// SecretGenerator derives opaque device secrets and their stored
// verifiers from a server-side HMAC key. Both derivations are
// deterministic given the key, so a verifier can be recomputed from a
// presented secret without the original ever being persisted.
type SecretGenerator struct {
	key []byte
}

// NewSecretGenerator creates a SecretGenerator keyed with the server's
// device secret.
func NewSecretGenerator(key string) *SecretGenerator {
	return &SecretGenerator{key: []byte(key)}
}

// Generate produces a fresh device secret and its verifier.
//
// The secret is an HMAC over a high-entropy seed (uuid + timestamp +
// random salt); the verifier is a second HMAC over the secret. Only the
// verifier is stored — holding it is not enough to authenticate, because
// verification re-derives it from the presented secret.
func (g *SecretGenerator) Generate() (secret, verifier string, err error) {
	salt := make([]byte, seedSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", "", fmt.Errorf("generating secret salt: %w", err)
	}

	seed := uuid.NewString() + time.Now().UTC().Format(time.RFC3339Nano) + string(salt)
	secret = g.hash([]byte(seed))
	verifier = g.hash([]byte(secret))
	return secret, verifier, nil
}

// HashIdentifier applies the single keyed hash to a value. Used both to
// re-derive a verifier from a presented device secret and to
// pseudonymize identifiers before storage or lookup.
func (g *SecretGenerator) HashIdentifier(s string) string {
	return g.hash([]byte(s))
}

func (g *SecretGenerator) hash(data []byte) string {
	mac := hmac.New(sha256.New, g.key)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}
