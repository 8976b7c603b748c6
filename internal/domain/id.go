package domain

import (
	"crypto/rand"
	"encoding/hex"
)

// newID returns "<prefix>-" followed by a 16 character random token.
func newID(prefix string) string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand on supported platforms does not fail
		panic(err)
	}
	return prefix + "-" + hex.EncodeToString(buf)
}
