package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any failed password login. The
// message never says whether the user or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// PasswordVerifier checks the single admin fallback account. It exists
// so the app stays reachable when Google sign-in is down or unconfigured.
type PasswordVerifier struct {
	user string
	hash string
}

func NewPasswordVerifier(user, bcryptHash string) *PasswordVerifier {
	return &PasswordVerifier{user: user, hash: bcryptHash}
}

func (v *PasswordVerifier) Enabled() bool {
	return v.user != "" && v.hash != ""
}

func (v *PasswordVerifier) Verify(user, password string) error {
	if !v.Enabled() || user != v.user {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(v.hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword generates a bcrypt hash for provisioning the admin account.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
