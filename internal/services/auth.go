package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"danceregistry/internal/domain"
)

type authService struct {
	adminEmail   string
	passwordHash string
	hasher       domain.PasswordHasher
	issuer       domain.TokenIssuer
	verifier     domain.TokenVerifier
	tokenExpiry  time.Duration
}

// NewAuthService creates the single-admin AuthService. The admin password
// may be supplied pre-hashed (preferred) or in plain text, in which case it
// is hashed once at startup. An empty email and password leaves the service
// unconfigured; Login then fails with a configuration error.
func NewAuthService(
	adminEmail, adminPassword, adminPasswordHash string,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	verifier domain.TokenVerifier,
	tokenExpiry time.Duration,
) (domain.AuthService, error) {
	hash := adminPasswordHash
	if hash == "" && adminPassword != "" {
		var err error
		hash, err = hasher.Hash(adminPassword)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
	}
	return &authService{
		adminEmail:   strings.ToLower(strings.TrimSpace(adminEmail)),
		passwordHash: hash,
		hasher:       hasher,
		issuer:       issuer,
		verifier:     verifier,
		tokenExpiry:  tokenExpiry,
	}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.AuthUser, error) {
	if s.adminEmail == "" || s.passwordHash == "" {
		return "", nil, fmt.Errorf("admin credentials not configured")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email != s.adminEmail {
		return "", nil, domain.ErrUnauthenticated
	}
	if err := s.hasher.Compare(s.passwordHash, password); err != nil {
		return "", nil, domain.ErrUnauthenticated
	}
	token, err := s.issuer.Issue(email, domain.RoleAdmin, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, &domain.AuthUser{Email: email, Role: domain.RoleAdmin}, nil
}

func (s *authService) Verify(ctx context.Context, token string) (*domain.AuthUser, error) {
	return s.verifier.Verify(token)
}
