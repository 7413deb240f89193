// Package credentials is the key/value table backing the token store.
package credentials

import "context"

// Repository stores opaque string values by key.
// Get returns ("", false, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string]string, error)
}
