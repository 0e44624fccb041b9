// Package state persists small pieces of durable client state (session
// token, serialized cart) as a key/value mapping in the local database.
package state

import (
	"context"
)

// Repository is a durable key -> value mapping. Get returns (nil, nil) for
// a missing key; absence is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
