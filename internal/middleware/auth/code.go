package auth

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrCodeMismatch is returned when a confirmation code does not match its hash.
var ErrCodeMismatch = errors.New("confirmation code mismatch")

// NewConfirmationCode returns a fresh random code to be emailed to the user.
// Only its hash is persisted.
func NewConfirmationCode() string {
	return uuid.NewString()
}

// HashCode creates a bcrypt hash from the given plaintext code.
func HashCode(code string) (string, error) {
	// codes are random and short lived, default cost is enough
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyCode checks if the provided plaintext code matches the stored bcrypt hash.
func VerifyCode(hashedCode, providedCode string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedCode), []byte(providedCode))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrCodeMismatch
	}
	return err
}
