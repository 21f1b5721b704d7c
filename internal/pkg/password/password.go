// Package password wraps bcrypt behind the two operations the rest of the
// system is allowed to perform on credentials: hash and verify. Plaintext is
// never stored and never travels past this package boundary.
package password

import "golang.org/x/crypto/bcrypt"

// Cost is the bcrypt work factor. Raising it invalidates nothing (old digests
// self-describe their cost) but slows new hashes and every verification.
const Cost = 12

// Hash derives a salted bcrypt digest from plain. Two calls with the same
// input produce different digests; both verify.
func Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether digest was derived from plain. Malformed digests
// verify as false rather than erroring, so a corrupted stored hash behaves
// like a wrong password.
func Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
