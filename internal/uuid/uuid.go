package uuid

import (
	"github.com/google/uuid"
)

// Gen produces a fresh identifier. Services take one so tests can pin ids.
type Gen func() string

// New returns a random (version 4) UUID in its canonical string form.
// The randomness comes from crypto/rand, so collisions are negligible.
func New() string {
	return uuid.NewString()
}

// IsValid reports whether s parses as a UUID.
func IsValid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
