// Package token produces the opaque single-use identifiers embedded in
// confirmation and password-reset links.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Length is the number of random bytes per token; the hex encoding
// doubles it on the wire.
const Length = 32

// Source generates unpredictable URL-safe tokens. The value space is
// large enough that collisions are treated as negligible and no
// store-level uniqueness check is performed on issuance.
type Source struct{}

func NewSource() *Source { return &Source{} }

func (*Source) New() (string, error) {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
