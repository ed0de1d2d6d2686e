package service

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bazario/console/core"
	"github.com/bazario/console/ports"
)

// DefaultPhonePattern matches the target deployment's national numbering
// plan: ten digits starting 6-9.
const DefaultPhonePattern = `^[6-9][0-9]{9}$`

var codePattern = regexp.MustCompile(`^[0-9]{4}$`)

// OTPService drives the two-step OTP challenge flow: request a code, then
// verify it. Exactly one challenge is outstanding per login attempt, and no
// two backend calls for the same attempt are in flight simultaneously.
// Failures surface to the caller for manual retry; there are no automatic
// retries.
type OTPService struct {
	backend ports.AuthBackend
	phoneRe *regexp.Regexp
	now     func() time.Time

	mu        sync.Mutex
	challenge *core.Challenge
	inFlight  bool
}

// NewOTPService creates the OTP flow service. An empty pattern selects
// DefaultPhonePattern.
func NewOTPService(backend ports.AuthBackend, phonePattern string) (*OTPService, error) {
	if phonePattern == "" {
		phonePattern = DefaultPhonePattern
	}
	phoneRe, err := regexp.Compile(phonePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid phone pattern: %w", err)
	}

	return &OTPService{
		backend: backend,
		phoneRe: phoneRe,
		now:     time.Now,
	}, nil
}

// RequestCode validates the phone number and asks the backend to send a
// code. A successful request replaces any previous challenge.
func (s *OTPService) RequestCode(ctx context.Context, phoneNumber string) (core.Challenge, error) {
	if !s.phoneRe.MatchString(phoneNumber) {
		return core.Challenge{}, core.ErrInvalidPhone
	}

	if err := s.begin(); err != nil {
		return core.Challenge{}, err
	}
	defer s.end()

	verificationID, timeout, err := s.backend.SendOTP(ctx, phoneNumber)
	if err != nil {
		return core.Challenge{}, err
	}

	now := s.now()
	challenge := core.Challenge{
		AttemptID:      uuid.New().String(),
		PhoneNumber:    phoneNumber,
		VerificationID: verificationID,
		IssuedAt:       now,
		ExpiresAt:      now.Add(timeout),
	}

	s.mu.Lock()
	s.challenge = &challenge
	s.mu.Unlock()

	return challenge, nil
}

// VerifyCode submits a code against the outstanding challenge. The code must
// be exactly four digits; anything else is rejected without a network call.
// On success the challenge is consumed and the issued tokens and user are
// returned for SessionService.Login. On backend rejection the challenge is
// retained so the same verification ID can be resubmitted.
func (s *OTPService) VerifyCode(ctx context.Context, code string) (*core.TokenPair, *core.Identity, error) {
	if !codePattern.MatchString(code) {
		return nil, nil, core.ErrInvalidCode
	}

	s.mu.Lock()
	if s.challenge == nil {
		s.mu.Unlock()
		return nil, nil, core.ErrNoChallenge
	}
	challenge := *s.challenge
	s.mu.Unlock()

	if err := s.begin(); err != nil {
		return nil, nil, err
	}
	defer s.end()

	pair, user, err := s.backend.VerifyOTP(ctx, challenge.PhoneNumber, challenge.VerificationID, code)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	s.challenge = nil
	s.mu.Unlock()

	return pair, user, nil
}

// Resend requests a fresh code for the current challenge's phone number,
// replacing the challenge and its countdown. It is throttled client-side
// until the countdown reaches zero.
func (s *OTPService) Resend(ctx context.Context) (core.Challenge, error) {
	s.mu.Lock()
	if s.challenge == nil {
		s.mu.Unlock()
		return core.Challenge{}, core.ErrNoChallenge
	}
	if s.challenge.Remaining(s.now()) > 0 {
		s.mu.Unlock()
		return core.Challenge{}, core.ErrResendThrottled
	}
	phoneNumber := s.challenge.PhoneNumber
	s.mu.Unlock()

	return s.RequestCode(ctx, phoneNumber)
}

// Cancel discards the outstanding challenge ("change number").
func (s *OTPService) Cancel() {
	s.mu.Lock()
	s.challenge = nil
	s.mu.Unlock()
}

// Challenge returns the outstanding challenge, if any.
func (s *OTPService) Challenge() (core.Challenge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.challenge == nil {
		return core.Challenge{}, false
	}
	return *s.challenge, true
}

// Remaining returns the advisory resend countdown. Zero means resend is
// available; countdown expiry does not invalidate the challenge server-side.
func (s *OTPService) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.challenge == nil {
		return 0
	}
	return s.challenge.Remaining(s.now())
}

func (s *OTPService) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return core.ErrRequestInFlight
	}
	s.inFlight = true
	return nil
}

func (s *OTPService) end() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}
