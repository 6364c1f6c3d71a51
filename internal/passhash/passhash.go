// Package passhash wraps bcrypt hashing and verification of account
// passwords. Every hash embeds its own random salt and cost factor, so
// verification needs nothing beyond the stored blob.
package passhash

import "golang.org/x/crypto/bcrypt"

// Hash derives a salted bcrypt hash from password at the given cost. A cost
// outside bcrypt's valid range falls back to the library default.
func Hash(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// Verify reports whether password matches the stored hash. Malformed input
// is treated as a mismatch, never an error; bcrypt's own constant-time
// comparison is used underneath.
func Verify(password string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
