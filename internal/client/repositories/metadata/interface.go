// Package metadata is the client's small local key/value store. Values are
// opaque byte slices; callers decide the encoding.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}
