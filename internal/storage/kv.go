package storage

import (
	"context"
	"time"
)

// KVEngine is an embedded key-value store.
//
// Implementations must be safe for concurrent use.
type KVEngine interface {
	// Get retrieves a value by key.
	// Returns ErrKeyNotFound if the key doesn't exist.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set stores a key-value pair.
	Set(ctx context.Context, key, value []byte) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key []byte) error

	// Scan iterates over keys with a given prefix.
	// Callback returns false to stop iteration.
	Scan(ctx context.Context, prefix []byte, fn func(key, value []byte) bool) error

	// GC reclaims space from the value log.
	GC(ctx context.Context) (uint64, error)

	// Stats returns storage statistics.
	Stats(ctx context.Context) (*KVStats, error)

	// Close gracefully shuts down the engine.
	Close() error
}

// KVStats contains storage engine statistics.
type KVStats struct {
	// LSMSize is the LSM tree size in bytes.
	LSMSize uint64

	// ValueLogSize is the value log size in bytes.
	ValueLogSize uint64

	// TotalSize is LSMSize + ValueLogSize.
	TotalSize uint64

	// LastGCTime is the last GC run timestamp (Unix milliseconds).
	LastGCTime int64

	// GCRuns counts value log rewrites since start.
	GCRuns uint64
}

// KVConfig configures the embedded engine.
type KVConfig struct {
	// Dir is the storage directory. Empty runs the engine in memory.
	Dir string

	// GCInterval is the interval between automatic GC runs (default: 10m).
	GCInterval time.Duration

	// GCThreshold is the value log discard ratio that triggers a rewrite (default: 0.5).
	GCThreshold float64

	// CacheSize is the block cache size in bytes (default: 16MB).
	CacheSize int64

	// SyncWrites fsyncs every write.
	SyncWrites bool
}

// DefaultKVConfig returns the default configuration for dir.
func DefaultKVConfig(dir string) KVConfig {
	return KVConfig{
		Dir:         dir,
		GCInterval:  10 * time.Minute,
		GCThreshold: 0.5,
		CacheSize:   16 << 20,
		SyncWrites:  false,
	}
}
