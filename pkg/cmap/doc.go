// Package cmap provides a concurrent map implementation for craftgate.
//
// The map is split into a power-of-two number of shards, each guarded by
// its own RWMutex, so that unrelated keys never contend on one lock.
// Compute runs a read-modify-write under the shard lock, which makes
// per-key updates linearizable.
//
// Usage:
//
//	m := cmap.New[string, int]()
//	m.Compute("10.0.0.1", func(v int, ok bool) (int, bool) { return v + 1, true })
//	val, ok := m.Get("10.0.0.1")
package cmap
