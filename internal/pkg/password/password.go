package password

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the bcrypt work factor applied to new hashes
	DefaultCost = 12

	// MinLength is the shortest password accepted at registration
	MinLength = 8
)

// Hash derives a bcrypt hash of the password for storage
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify reports whether the password matches the stored hash
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashToken returns the hex SHA-256 digest of a token. Refresh tokens are
// stored as digests so a leaked table cannot be replayed.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}

// ValidatePassword checks the password against the length policy
func ValidatePassword(password string) bool {
	return len(password) >= MinLength
}
