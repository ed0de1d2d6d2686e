package ports

import (
	"context"
	"time"

	"github.com/bazario/console/core"
)

// VendorAction is a moderation action applied to a vendor application.
type VendorAction string

const (
	VendorApprove VendorAction = "approve"
	VendorReject  VendorAction = "reject"
	VendorSuspend VendorAction = "suspend"
)

// VendorQuery filters a vendor listing. Zero values are omitted.
type VendorQuery struct {
	Status     string
	VendorType string
	Page       int
	Limit      int
}

// UserQuery filters a user listing. Zero values are omitted; IsActive is a
// tri-state (nil means unfiltered).
type UserQuery struct {
	Role     string
	IsActive *bool
	Page     int
	Limit    int
}

// AuthBackend is the unauthenticated OTP surface of the marketplace API.
type AuthBackend interface {
	// SendOTP requests a verification code for the given phone number and
	// returns the server-issued verification ID and resend timeout.
	SendOTP(ctx context.Context, phoneNumber string) (verificationID string, timeout time.Duration, err error)

	// VerifyOTP submits a code for an outstanding verification and returns
	// the issued token pair and user on success.
	VerifyOTP(ctx context.Context, phoneNumber, verificationID, code string) (*core.TokenPair, *core.Identity, error)
}

// AdminBackend is the authenticated admin surface of the marketplace API.
// Every call carries the stored bearer token; a 401/403 surfaces as
// core.ErrUnauthenticated.
type AdminBackend interface {
	ListVendors(ctx context.Context, q VendorQuery) ([]core.Vendor, core.Pagination, error)
	VendorAction(ctx context.Context, vendorID string, action VendorAction) (*core.Vendor, error)

	ListUsers(ctx context.Context, q UserQuery) ([]core.UserAccount, core.Pagination, error)
	AssignAdmin(ctx context.Context, userID string, profile core.AdminProfileInput) (*core.UserAccount, error)
	RevokeAdmin(ctx context.Context, userID string) (*core.UserAccount, error)
	ToggleUserStatus(ctx context.Context, userID string, active bool) (*core.UserAccount, error)

	UpdateProfile(ctx context.Context, profile core.AdminProfileInput) (*core.AdminProfile, error)
}
