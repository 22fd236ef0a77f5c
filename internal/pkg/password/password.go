package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	appErr "github.com/xxxsen/signup/internal/pkg/errors"
)

// Hash returns the bcrypt hash of plain. Inputs bcrypt cannot represent
// (longer than 72 bytes) are reported as ErrInvalid.
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", appErr.ErrInvalid
		}
		return "", err
	}
	return string(hashed), nil
}

func Compare(hash, plain string) error {
	if hash == "" {
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
