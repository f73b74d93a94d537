// Package service provides domain services for craftgate.
//
// Domain services contain the business logic behind the HTTP gateway and
// the local console. They depend on narrow interfaces (host.Reader,
// Dispatcher, ProfileStore) so they can be exercised without a running
// host.
//
// This package contains:
//
//   - CredentialStore: administrator credential verification (bcrypt)
//   - TokenService: HS256 session token issuance and verification
//   - RateLimiter: per-client fixed-window request counting
//   - AuthService: login flow combining credentials and tokens
//   - GameService: player and server queries plus dispatched mutations
//
// All services are safe for concurrent use.
package service
