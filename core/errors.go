package core

import "errors"

var (
	// ErrNoToken is returned by a token store when no token has been set.
	ErrNoToken = errors.New("no token stored")

	// ErrInvalidToken is returned when a token cannot be decoded.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when a token's exp claim is in the past.
	ErrTokenExpired = errors.New("token has expired")

	// ErrInvalidPhone is returned when a phone number does not match the
	// configured numbering pattern. Detected before any network call.
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrInvalidCode is returned when an OTP code is not exactly four digits.
	// Detected before any network call.
	ErrInvalidCode = errors.New("invalid verification code")

	// ErrNoChallenge is returned when a code is submitted without an
	// outstanding challenge.
	ErrNoChallenge = errors.New("no outstanding challenge")

	// ErrChallengeRejected is returned when the backend rejects an OTP
	// request or verification. The caller may resubmit.
	ErrChallengeRejected = errors.New("challenge rejected")

	// ErrResendThrottled is returned when a resend is attempted before the
	// current challenge's countdown has reached zero.
	ErrResendThrottled = errors.New("resend not yet available")

	// ErrRequestInFlight is returned when a second OTP request or
	// verification is attempted while one is still outstanding.
	ErrRequestInFlight = errors.New("request already in flight")

	// ErrUnauthenticated is returned on a 401 or 403 from the backend.
	// A stale token cannot be repaired client-side, so callers convert it
	// into a forced logout.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrRequestFailed is returned on any other non-2xx backend response.
	ErrRequestFailed = errors.New("backend request failed")

	// ErrBadResponse is returned when a 2xx response does not match the
	// documented envelope shape.
	ErrBadResponse = errors.New("malformed backend response")

	// ErrStoreFailed is returned when a token store operation fails.
	ErrStoreFailed = errors.New("token store operation failed")
)
