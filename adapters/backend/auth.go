package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bazario/console/core"
	"github.com/bazario/console/ports"
)

type sendOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type sendOTPData struct {
	VerificationID string         `json:"verificationId"`
	Timeout        timeoutSeconds `json:"timeout"`
}

type verifyOTPRequest struct {
	PhoneNumber    string `json:"phoneNumber"`
	VerificationID string `json:"verificationId"`
	Code           string `json:"code"`
}

type verifyOTPData struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	User         core.Identity `json:"user"`
}

// SendOTP requests a verification code for the given phone number.
func (c *Client) SendOTP(ctx context.Context, phoneNumber string) (string, time.Duration, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/send-otp", nil, sendOTPRequest{PhoneNumber: phoneNumber}, false)
	if err != nil {
		return "", 0, asChallengeErr(err)
	}
	if !env.Success {
		return "", 0, fmt.Errorf("%w: %s", core.ErrChallengeRejected, env.Message)
	}

	var data sendOTPData
	if err := decodeData(env, &data); err != nil {
		return "", 0, err
	}
	if data.VerificationID == "" {
		return "", 0, fmt.Errorf("%w: missing verificationId", core.ErrBadResponse)
	}

	return data.VerificationID, time.Duration(data.Timeout) * time.Second, nil
}

// VerifyOTP submits a code for an outstanding verification. A 401/403 passes
// through as core.ErrUnauthenticated; any other backend rejection surfaces
// as core.ErrChallengeRejected so the caller can clear the form and retry.
func (c *Client) VerifyOTP(ctx context.Context, phoneNumber, verificationID, code string) (*core.TokenPair, *core.Identity, error) {
	req := verifyOTPRequest{
		PhoneNumber:    phoneNumber,
		VerificationID: verificationID,
		Code:           code,
	}

	env, err := c.do(ctx, http.MethodPost, "/auth/verify-otp", nil, req, false)
	if err != nil {
		return nil, nil, asChallengeErr(err)
	}
	if !env.Success {
		return nil, nil, fmt.Errorf("%w: %s", core.ErrChallengeRejected, env.Message)
	}

	var data verifyOTPData
	if err := decodeData(env, &data); err != nil {
		return nil, nil, err
	}
	if data.AccessToken == "" || data.RefreshToken == "" {
		return nil, nil, fmt.Errorf("%w: missing tokens", core.ErrBadResponse)
	}

	pair := &core.TokenPair{
		AccessToken:  data.AccessToken,
		RefreshToken: data.RefreshToken,
	}
	return pair, &data.User, nil
}

// asChallengeErr reclassifies a plain backend rejection as a challenge
// failure. Authentication and transport errors pass through unchanged.
func asChallengeErr(err error) error {
	if errors.Is(err, core.ErrRequestFailed) {
		return fmt.Errorf("%w: %v", core.ErrChallengeRejected, err)
	}
	return err
}

var _ ports.AuthBackend = (*Client)(nil)
