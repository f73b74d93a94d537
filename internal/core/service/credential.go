package service

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/yndnr/craftgate/internal/core/domain"
)

// CredentialStore verifies administrator credentials.
//
// The password is hashed once at construction; the plaintext is not kept.
type CredentialStore struct {
	identity domain.AdminIdentity
}

// NewCredentialStore hashes password with the given bcrypt cost and
// returns a store for the single administrator identity.
// A cost of 0 selects bcrypt.DefaultCost.
func NewCredentialStore(username, password string, cost int) (*CredentialStore, error) {
	if username == "" {
		return nil, domain.ErrMissingField.WithDetails("admin username")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	return &CredentialStore{
		identity: domain.AdminIdentity{
			Username:     username,
			PasswordHash: string(hash),
		},
	}, nil
}

// Username returns the administrator user name.
func (s *CredentialStore) Username() string {
	return s.identity.Username
}

// Verify reports whether username and password match the administrator.
//
// The bcrypt comparison runs even when the username is wrong so that the
// response time does not reveal which field failed.
func (s *CredentialStore) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.identity.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(s.identity.PasswordHash), []byte(password))
	return userOK && passErr == nil
}
