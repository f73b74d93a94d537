// Package storage persists player profiles for craftgate.
//
// Profiles live in an embedded Badger database behind the KVEngine
// interface. With an empty data directory the database runs in memory,
// which is what tests and throwaway servers use.
//
// Keys:
//
//	profile/<uuid>  JSON-encoded domain.PlayerProfile
package storage
