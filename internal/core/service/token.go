package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yndnr/craftgate/internal/core/domain"
)

// TokenService issues and verifies HS256 session tokens.
//
// Verification is stateless; an issued token stays valid until it expires.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// WithTTL overrides the token lifetime.
func WithTTL(ttl time.Duration) TokenOption {
	return func(s *TokenService) {
		s.ttl = ttl
	}
}

// NewTokenService creates a token service signing with secret.
func NewTokenService(secret string, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, domain.ErrMissingField.WithDetails("jwt secret")
	}

	s := &TokenService{
		secret: []byte(secret),
		ttl:    domain.SessionTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a new token for subject. The expiry is fixed at issuance.
func (s *TokenService) Issue(subject string) (string, domain.SessionClaims, error) {
	now := s.now()
	claims := domain.SessionClaims{
		Subject:   subject,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   claims.Subject,
		IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
		ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", domain.SessionClaims{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify reports whether token is a valid, unexpired token signed by
// this service. It never panics and fails closed on any parse error.
func (s *TokenService) Verify(token string) bool {
	_, err := s.Parse(token)
	return err == nil
}

// Parse validates token and returns its claims.
// Every failure is reported as domain.ErrUnauthorized.
func (s *TokenService) Parse(token string) (domain.SessionClaims, error) {
	if token == "" {
		return domain.SessionClaims{}, domain.ErrUnauthorized
	}

	var rc jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &rc, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("token not valid")
		}
		return domain.SessionClaims{}, domain.ErrUnauthorized.WithCause(err)
	}

	claims := domain.SessionClaims{Subject: rc.Subject}
	if rc.IssuedAt != nil {
		claims.IssuedAt = rc.IssuedAt.Time
	}
	if rc.ExpiresAt != nil {
		claims.ExpiresAt = rc.ExpiresAt.Time
	}
	// Sessions expire at exactly exp regardless of parser leeway.
	if claims.IsExpired(s.now()) {
		return domain.SessionClaims{}, domain.ErrUnauthorized.WithDetails("token expired")
	}
	return claims, nil
}
