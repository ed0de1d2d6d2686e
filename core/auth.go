package core

import "time"

// RoleAdmin is the role required to operate the console. Authorization is
// always re-checked by the backend; the client uses the role for UI gating only.
const RoleAdmin = "ADMIN"

// Identity is the user identity decoded from an access token.
//
// The claims are read without signature verification, so an Identity is
// advisory: it may drive what the console renders, never an authorization
// decision.
type Identity struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
	IsActive    bool   `json:"isActive"`
}

// TokenPair is the access/refresh token pair issued on successful OTP
// verification.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Challenge correlates an OTP request with its verification.
type Challenge struct {
	AttemptID      string    // Unique identifier for this login attempt
	PhoneNumber    string    // Number the code was sent to
	VerificationID string    // Server-issued correlation identifier
	IssuedAt       time.Time // When the code was requested
	ExpiresAt      time.Time // When the resend countdown reaches zero
}

// Remaining returns the advisory countdown until resend becomes available.
// The countdown does not invalidate the challenge server-side.
func (c Challenge) Remaining(now time.Time) time.Duration {
	if d := c.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
