package metadata

import (
	"context"
)

// Repository is a small key/value table in the local database. The client
// keeps its persisted auth session here.
type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
