package security

import "golang.org/x/crypto/bcrypt"

// Work factor carried over from the account provisioning tooling.
const bcryptCost = 12

// HashPassword hashes a plain text password with bcrypt. A fresh random
// salt is baked into every hash, so the same input never produces the
// same output twice.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a plaintext password.
// bcrypt recomputes with the salt embedded in the stored value and
// compares in constant time. A malformed stored hash is an error,
// never a panic.
func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
