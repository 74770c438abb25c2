// Package cache provides a layered transcript cache. Caption fetches
// are the slowest and flakiest part of the pipeline, so fetched cue
// sequences are kept in memory for the life of the process and on disk
// across runs, keyed by video ID.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a video ID
func Key(videoID string) string {
	hash := sha256.Sum256([]byte(videoID))
	return "veritube:v1:" + hex.EncodeToString(hash[:])
}
