// Package gateway is the synchronous string key/value surface the game
// persists through between sessions.
package gateway

import (
	"context"
	"errors"
)

// ErrPersistence wraps every failure of a backing store.
var ErrPersistence = errors.New("persistence failure")

// Gateway reads and writes whole string values under fixed keys.
type Gateway interface {
	// Get returns ok=false when the key was never set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
