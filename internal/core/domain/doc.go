// Package domain defines the core domain models for craftgate.
//
// Domain models are pure value objects without IO dependencies or
// framework coupling. This package contains:
//
//   - AdminIdentity and SessionClaims: the single administrator principal
//     and the contents of its bearer token
//   - RateWindow: the per-client fixed-window request counter
//   - Player, World, ServerInfo, PlayerProfile: the game host's object model
//   - GameMode: parsing and formatting of player game modes
//   - Errors: domain error taxonomy with stable error codes
package domain
