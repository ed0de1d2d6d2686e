package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bazario/console/core"
)

// fakeAuthBackend implements ports.AuthBackend with pluggable behavior.
type fakeAuthBackend struct {
	sendOTP   func(ctx context.Context, phoneNumber string) (string, time.Duration, error)
	verifyOTP func(ctx context.Context, phoneNumber, verificationID, code string) (*core.TokenPair, *core.Identity, error)
}

func (f *fakeAuthBackend) SendOTP(ctx context.Context, phoneNumber string) (string, time.Duration, error) {
	return f.sendOTP(ctx, phoneNumber)
}

func (f *fakeAuthBackend) VerifyOTP(ctx context.Context, phoneNumber, verificationID, code string) (*core.TokenPair, *core.Identity, error) {
	return f.verifyOTP(ctx, phoneNumber, verificationID, code)
}

func sendOK(id string, timeout time.Duration) func(context.Context, string) (string, time.Duration, error) {
	return func(ctx context.Context, phoneNumber string) (string, time.Duration, error) {
		return id, timeout, nil
	}
}

func newOTP(t *testing.T, backend *fakeAuthBackend) *OTPService {
	t.Helper()
	svc, err := NewOTPService(backend, "")
	require.NoError(t, err)
	return svc
}

func TestRequestCode_PhoneValidation(t *testing.T) {
	t.Parallel()

	called := false
	backend := &fakeAuthBackend{
		sendOTP: func(ctx context.Context, phoneNumber string) (string, time.Duration, error) {
			called = true
			return "v-1", 60 * time.Second, nil
		},
	}
	svc := newOTP(t, backend)
	ctx := context.Background()

	for _, phone := range []string{"1234567890", "98765", "98765432101", "", "abcdefghij", "0876543210"} {
		_, err := svc.RequestCode(ctx, phone)
		require.ErrorIs(t, err, core.ErrInvalidPhone, "phone %q", phone)
	}
	require.False(t, called, "invalid numbers must not reach the backend")

	challenge, err := svc.RequestCode(ctx, "9876543210")
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, "9876543210", challenge.PhoneNumber)
	require.Equal(t, "v-1", challenge.VerificationID)
	require.NotEmpty(t, challenge.AttemptID)
}

func TestRequestCode_BackendRejection(t *testing.T) {
	t.Parallel()

	backend := &fakeAuthBackend{
		sendOTP: func(ctx context.Context, phoneNumber string) (string, time.Duration, error) {
			return "", 0, core.ErrChallengeRejected
		},
	}
	svc := newOTP(t, backend)

	_, err := svc.RequestCode(context.Background(), "9876543210")
	require.ErrorIs(t, err, core.ErrChallengeRejected)

	_, ok := svc.Challenge()
	require.False(t, ok, "failed request must not leave a challenge behind")
}

func TestVerifyCode_LocalCodeValidation(t *testing.T) {
	t.Parallel()

	called := false
	backend := &fakeAuthBackend{
		sendOTP: sendOK("v-1", 60*time.Second),
		verifyOTP: func(ctx context.Context, phoneNumber, verificationID, code string) (*core.TokenPair, *core.Identity, error) {
			called = true
			return &core.TokenPair{}, &core.Identity{}, nil
		},
	}
	svc := newOTP(t, backend)
	ctx := context.Background()

	_, err := svc.RequestCode(ctx, "9876543210")
	require.NoError(t, err)

	for _, code := range []string{"", "123", "12345", "12a4", "abcd"} {
		_, _, err := svc.VerifyCode(ctx, code)
		require.ErrorIs(t, err, core.ErrInvalidCode, "code %q", code)
	}
	require.False(t, called, "invalid codes must not reach the backend")
}

func TestVerifyCode_NoChallenge(t *testing.T) {
	t.Parallel()

	svc := newOTP(t, &fakeAuthBackend{})
	_, _, err := svc.VerifyCode(context.Background(), "1234")
	require.ErrorIs(t, err, core.ErrNoChallenge)
}

func TestVerifyCode_Success(t *testing.T) {
	t.Parallel()

	wantUser := core.Identity{ID: "u-1", PhoneNumber: "9876543210", Role: "ADMIN", IsActive: true}
	backend := &fakeAuthBackend{
		sendOTP: sendOK("v-1", 60*time.Second),
		verifyOTP: func(ctx context.Context, phoneNumber, verificationID, code string) (*core.TokenPair, *core.Identity, error) {
			require.Equal(t, "9876543210", phoneNumber)
			require.Equal(t, "v-1", verificationID)
			require.Equal(t, "1234", code)
			return &core.TokenPair{AccessToken: "a", RefreshToken: "r"}, &wantUser, nil
		},
	}
	svc := newOTP(t, backend)
	ctx := context.Background()

	_, err := svc.RequestCode(ctx, "9876543210")
	require.NoError(t, err)

	pair, user, err := svc.VerifyCode(ctx, "1234")
	require.NoError(t, err)
	require.Equal(t, "a", pair.AccessToken)
	require.Equal(t, "r", pair.RefreshToken)
	require.Equal(t, wantUser, *user)

	// The challenge is consumed on success.
	_, ok := svc.Challenge()
	require.False(t, ok)
}

func TestVerifyCode_RejectionKeepsChallenge(t *testing.T) {
	t.Parallel()

	attempts := 0
	backend := &fakeAuthBackend{
		sendOTP: sendOK("v-1", 60*time.Second),
		verifyOTP: func(ctx context.Context, phoneNumber, verificationID, code string) (*core.TokenPair, *core.Identity, error) {
			attempts++
			if attempts == 1 {
				return nil, nil, core.ErrChallengeRejected
			}
			return &core.TokenPair{AccessToken: "a", RefreshToken: "r"}, &core.Identity{ID: "u-1"}, nil
		},
	}
	svc := newOTP(t, backend)
	ctx := context.Background()

	_, err := svc.RequestCode(ctx, "9876543210")
	require.NoError(t, err)

	_, _, err = svc.VerifyCode(ctx, "9999")
	require.ErrorIs(t, err, core.ErrChallengeRejected)

	// Same verification ID may be resubmitted until the backend expires it.
	challenge, ok := svc.Challenge()
	require.True(t, ok)
	require.Equal(t, "v-1", challenge.VerificationID)

	_, _, err = svc.VerifyCode(ctx, "1234")
	require.NoError(t, err)
}

func TestResend_ThrottledWhileCountdownRunning(t *testing.T) {
	t.Parallel()

	sends := 0
	backend := &fakeAuthBackend{
		sendOTP: func(ctx context.Context, phoneNumber string) (string, time.Duration, error) {
			sends++
			return "v-" + string(rune('0'+sends)), 30 * time.Second, nil
		},
	}
	svc := newOTP(t, backend)
	ctx := context.Background()

	_, err := svc.RequestCode(ctx, "9876543210")
	require.NoError(t, err)
	require.Greater(t, svc.Remaining(), time.Duration(0))

	_, err = svc.Resend(ctx)
	require.ErrorIs(t, err, core.ErrResendThrottled)
	require.Equal(t, 1, sends)

	// Advance past the countdown.
	svc.now = func() time.Time { return time.Now().Add(31 * time.Second) }

	challenge, err := svc.Resend(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, sends)
	require.Equal(t, "v-2", challenge.VerificationID)
	require.Greater(t, svc.Remaining(), time.Duration(0))
}

func TestResend_NoChallenge(t *testing.T) {
	t.Parallel()

	svc := newOTP(t, &fakeAuthBackend{})
	_, err := svc.Resend(context.Background())
	require.ErrorIs(t, err, core.ErrNoChallenge)
}

func TestCancel_DiscardsChallenge(t *testing.T) {
	t.Parallel()

	svc := newOTP(t, &fakeAuthBackend{sendOTP: sendOK("v-1", 60*time.Second)})
	ctx := context.Background()

	_, err := svc.RequestCode(ctx, "9876543210")
	require.NoError(t, err)

	svc.Cancel()

	_, ok := svc.Challenge()
	require.False(t, ok)
	require.Zero(t, svc.Remaining())

	_, _, err = svc.VerifyCode(ctx, "1234")
	require.ErrorIs(t, err, core.ErrNoChallenge)
}

func TestRequestCode_SingleFlight(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	backend := &fakeAuthBackend{
		sendOTP: func(ctx context.Context, phoneNumber string) (string, time.Duration, error) {
			close(started)
			<-release
			return "v-1", 60 * time.Second, nil
		},
	}
	svc := newOTP(t, backend)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := svc.RequestCode(ctx, "9876543210")
		done <- err
	}()

	<-started
	_, err := svc.RequestCode(ctx, "9876543210")
	require.ErrorIs(t, err, core.ErrRequestInFlight)

	close(release)
	require.NoError(t, <-done)
}
