package oauth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// stateLength is the number of random bytes in a state token. 32 bytes gives
// 256 bits of entropy, enough that collisions and guessing are not a concern
// even with many concurrent flows.
const stateLength = 32

// NewState returns a random, URL-safe state token. The token correlates one
// login attempt across the popup, the provider callback, and status polling,
// and doubles as the CSRF nonce carried through the provider redirect.
func NewState() (string, error) {
	b := make([]byte, stateLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
