package ports

import "context"

// TokenStore persists the access/refresh token pair across process restarts.
// It is pure key/value persistence: token contents are never validated here,
// and the store is not a security boundary.
type TokenStore interface {
	// Set overwrites both tokens. No reader may observe only one updated.
	Set(ctx context.Context, access, refresh string) error

	// Access returns the stored access token, or core.ErrNoToken.
	Access(ctx context.Context) (string, error)

	// Refresh returns the stored refresh token, or core.ErrNoToken.
	Refresh(ctx context.Context) (string, error)

	// Clear removes both tokens. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
