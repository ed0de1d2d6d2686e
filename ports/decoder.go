package ports

import "github.com/bazario/console/core"

// IdentityDecoder derives a user identity from an access token without
// contacting the server.
type IdentityDecoder interface {
	// Decode parses the token's payload segment and returns the identity.
	// The signature is not verified; the result is advisory only.
	Decode(token string) (*core.Identity, error)

	// Expired reports whether the token's exp claim is in the past.
	// A token without an exp claim never expires. A token that cannot be
	// decoded counts as expired.
	Expired(token string) bool
}
