package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yndnr/craftgate/internal/core/domain"
)

func newTestAuthService(t *testing.T, clock *fakeClock) *AuthService {
	t.Helper()
	creds, err := NewCredentialStore("admin", "change-this-password", bcrypt.MinCost)
	require.NoError(t, err)
	tokens := newTestTokenService(t, "test-secret", clock)
	return NewAuthService(creds, tokens, nil)
}

func TestAuthService_Login(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := newTestAuthService(t, clock)

	res, err := svc.Login("admin", "change-this-password")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, clock.t.Add(24*time.Hour), res.Claims.ExpiresAt)
	assert.True(t, svc.Authenticate(res.Token))

	clock.Advance(24 * time.Hour)
	assert.False(t, svc.Authenticate(res.Token))
}

func TestAuthService_LoginInvalid(t *testing.T) {
	svc := newTestAuthService(t, &fakeClock{t: time.Now()})

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "guess"},
		{"wrong user", "root", "change-this-password"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Login(tt.username, tt.password)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		})
	}
}
