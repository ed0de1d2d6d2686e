// Package tokenizer reads identity claims out of access tokens.
//
// Decoding is deliberately unverified: the console only needs claims to
// render UI state and decide whether an API call is worth making. Signature
// verification and real authorization are the backend's responsibility on
// every request.
package tokenizer

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bazario/console/core"
	"github.com/bazario/console/ports"
)

// Placeholder values used when a claim is absent from the payload.
const (
	fallbackUserID = "user-id"
	fallbackRole   = core.RoleAdmin
)

// Decoder implements the IdentityDecoder interface on top of JWT parsing.
type Decoder struct {
	parser *jwt.Parser
}

// NewDecoder creates a new claim decoder.
func NewDecoder() ports.IdentityDecoder {
	return &Decoder{
		parser: jwt.NewParser(jwt.WithoutClaimsValidation()),
	}
}

// Decode parses the token's payload segment as JSON and maps its claims to
// an Identity. Absent claims fall back to defaults rather than failing:
// the id is taken from userId, sub or id; the phone number from phoneNumber
// or phone; the role defaults to ADMIN and isActive to true.
func (d *Decoder) Decode(token string) (*core.Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := d.parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidToken, err)
	}

	identity := &core.Identity{
		ID:          stringClaim(claims, "userId", "sub", "id"),
		PhoneNumber: stringClaim(claims, "phoneNumber", "phone"),
		Role:        stringClaim(claims, "role"),
		IsActive:    true,
	}
	if identity.ID == "" {
		identity.ID = fallbackUserID
	}
	if identity.Role == "" {
		identity.Role = fallbackRole
	}
	if active, ok := claims["isActive"].(bool); ok {
		identity.IsActive = active
	}

	return identity, nil
}

// Expired reports whether the exp claim (seconds since epoch) is at or
// before now. A token without an exp claim is treated as non-expiring; a
// token that cannot be decoded counts as expired.
func (d *Decoder) Expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := d.parser.ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return true
	}
	if exp == nil {
		return false
	}
	return !exp.Time.After(time.Now())
}

func stringClaim(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if value, ok := claims[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}
