package utils

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// secretPattern is the required shape of a controller login secret.
var secretPattern = regexp.MustCompile(`^\d{4}$`)

// HashPassword returns a bcrypt hash using the given cost.  It is used
// for both account passwords and controller secrets.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares a bcrypt hash and a plain value.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ValidSecret reports whether s is an acceptable controller secret
// (exactly four digits).
func ValidSecret(s string) bool {
	return secretPattern.MatchString(s)
}
