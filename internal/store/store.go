// Package store persists configurator state as opaque values under string keys.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when nothing is stored under the key.
var ErrNotFound = errors.New("store: key not found")

// ConfigStore is the persistence port used by configurator sessions.
type ConfigStore interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Clear(ctx context.Context, key string) error
}
