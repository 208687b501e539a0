// Package auth provides the pluggable credential check used by the login
// gate and the session tokens handed out after a successful login.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotConfigured      = errors.New("no credential configured")
)

// Credentials is what an operator types into the login form.
type Credentials struct {
	Username string
	Password string
}

// Identity is the result of a successful verification.
type Identity struct {
	Username string
	Token    string
}

// Verifier checks credentials. Implementations return ErrInvalidCredentials
// for a wrong pair so callers can tell it apart from transport failures.
type Verifier interface {
	Verify(ctx context.Context, creds Credentials) (*Identity, error)
}

// StaticVerifier accepts a single shared credential pair. When PasswordHash
// is set it is a bcrypt hash and Password is ignored.
type StaticVerifier struct {
	Username     string
	Password     string
	PasswordHash string
}

func NewStaticVerifier(username, password, passwordHash string) *StaticVerifier {
	return &StaticVerifier{
		Username:     strings.TrimSpace(username),
		Password:     password,
		PasswordHash: strings.TrimSpace(passwordHash),
	}
}

// Verify compares in constant time. Both checks always run so a wrong
// username costs the same as a wrong password.
func (v *StaticVerifier) Verify(ctx context.Context, creds Credentials) (*Identity, error) {
	if v.Username == "" || (v.Password == "" && v.PasswordHash == "") {
		return nil, ErrNotConfigured
	}

	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(creds.Username)), []byte(v.Username)) == 1

	var passOK bool
	if v.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(v.PasswordHash), []byte(creds.Password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(creds.Password), []byte(v.Password)) == 1
	}

	if !userOK || !passOK {
		return nil, ErrInvalidCredentials
	}
	return &Identity{Username: v.Username}, nil
}

// HashPassword returns a bcrypt hash suitable for auth.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
