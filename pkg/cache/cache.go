// Package cache stores rendered frames and graph diagrams between runs.
//
// Three backends implement [Cache]:
//   - [NullCache]: never stores anything, for --no-cache
//   - [FileCache]: one file per entry under the user cache directory
//   - [RedisCache]: shared storage for preview servers running side by side
//
// Keys come from a [Keyer], which hashes every option that changes the
// bytes of an artifact, so a stale entry is never served after a scene edit.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the data stored under key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Pruner is implemented by backends that need expired entries removed
// explicitly. Redis expires keys by itself.
type Pruner interface {
	Prune(ctx context.Context) (int, error)
}

// Prune removes expired entries from c, looking through [Observed]
// wrappers. Backends that are not a [Pruner] report zero.
func Prune(ctx context.Context, c Cache) (int, error) {
	for {
		switch v := c.(type) {
		case Pruner:
			return v.Prune(ctx)
		case interface{ Unwrap() Cache }:
			c = v.Unwrap()
		default:
			return 0, nil
		}
	}
}

// FrameKeyOpts holds everything that changes a rendered frame.
type FrameKeyOpts struct {
	Seconds    float64 `json:"t"`
	Width      int     `json:"w"`
	Height     int     `json:"h"`
	Seed       uint64  `json:"seed"`
	Format     string  `json:"fmt"`
	Background string  `json:"bg,omitempty"`
}

// GraphKeyOpts holds everything that changes a rendered block diagram.
type GraphKeyOpts struct {
	Item   string `json:"item"`
	Format string `json:"fmt"`
}

// Keyer derives cache keys from a scene hash and render options.
type Keyer interface {
	FrameKey(sceneHash string, opts FrameKeyOpts) string
	GraphKey(sceneHash string, opts GraphKeyOpts) string
}

// DefaultKeyer produces "frame:<hash>" and "graph:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// FrameKey returns the key of one rendered frame.
func (DefaultKeyer) FrameKey(sceneHash string, opts FrameKeyOpts) string {
	return hashKey("frame", sceneHash, opts)
}

// GraphKey returns the key of one rendered block diagram.
func (DefaultKeyer) GraphKey(sceneHash string, opts GraphKeyOpts) string {
	return hashKey("graph", sceneHash, opts)
}
