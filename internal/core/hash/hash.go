// Package hash is the credential hashing boundary: plaintext goes in,
// an opaque bcrypt hash comes out, and nothing here ever logs either.
package hash

import "golang.org/x/crypto/bcrypt"

// bcrypt only consumes the first 72 bytes of input; longer passwords are
// truncated up front so GenerateFromPassword does not reject them.
const maxInputBytes = 72

// Password hashes plaintext with bcrypt at the default cost (10). The salt is
// generated per call, so equal inputs produce distinct hashes.
func Password(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword(truncate(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plaintext matches hashed. The comparison is
// constant-time inside bcrypt.
func Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), truncate(plaintext)) == nil
}

func truncate(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > maxInputBytes {
		b = b[:maxInputBytes]
	}
	return b
}
