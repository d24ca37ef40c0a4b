package domain

import (
	"context"
	"time"
)

// RoleAdmin is the role claim required for the management endpoints.
const RoleAdmin = "admin"

// AuthUser is the identity carried by a verified credential.
type AuthUser struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// TokenIssuer issues signed bearer tokens for an authenticated user.
type TokenIssuer interface {
	Issue(email, role string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a bearer token and returns the embedded identity.
// It returns ErrUnauthenticated for missing, malformed, expired, or
// signature-invalid tokens.
type TokenVerifier interface {
	Verify(token string) (*AuthUser, error)
}

// PasswordHasher hashes and verifies the admin password.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// AuthService authenticates the admin account and verifies tokens.
type AuthService interface {
	// Login checks the credentials against the configured admin account
	// and returns a signed token. Returns ErrUnauthenticated on bad
	// credentials; any configuration problem surfaces as a plain error.
	Login(ctx context.Context, email, password string) (token string, user *AuthUser, err error)
	Verify(ctx context.Context, token string) (*AuthUser, error)
}
