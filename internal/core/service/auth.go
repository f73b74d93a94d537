package service

import (
	"log/slog"

	"github.com/yndnr/craftgate/internal/core/domain"
)

// AuthService implements administrator login and bearer token checks.
type AuthService struct {
	creds  *CredentialStore
	tokens *TokenService
	logger *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(creds *CredentialStore, tokens *TokenService, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		creds:  creds,
		tokens: tokens,
		logger: logger,
	}
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Token  string
	Claims domain.SessionClaims
}

// Login verifies the administrator credentials and issues a session token.
func (s *AuthService) Login(username, password string) (*LoginResult, error) {
	if !s.creds.Verify(username, password) {
		s.logger.Warn("login failed", "username", username)
		return nil, domain.ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(username)
	if err != nil {
		return nil, domain.ErrInternal.WithCause(err)
	}

	s.logger.Info("login succeeded", "username", username, "expires_at", claims.ExpiresAt)
	return &LoginResult{Token: token, Claims: claims}, nil
}

// Authenticate reports whether token is a valid session token.
func (s *AuthService) Authenticate(token string) bool {
	return s.tokens.Verify(token)
}
