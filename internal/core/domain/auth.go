package domain

import "time"

// SessionTTL is the fixed lifetime of an administrator session token.
const SessionTTL = 24 * time.Hour

// AdminIdentity is the single privileged principal.
//
// It is built once from configuration; the plaintext password is hashed
// at construction and never retained.
type AdminIdentity struct {
	Username     string
	PasswordHash string
}

// SessionClaims is the content of an issued bearer token.
type SessionClaims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the claims are expired at the given instant.
// A token is expired at exactly ExpiresAt.
func (c SessionClaims) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
