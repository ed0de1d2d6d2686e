package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bazario/console/core"
	"github.com/bazario/console/ports"
)

// AdminService fronts the admin API for the console screens. Its one piece
// of behavior beyond delegation: a 401/403 from any endpoint means the
// stored token is beyond repair, so the session is logged out before the
// error is returned.
type AdminService struct {
	backend ports.AdminBackend
	session *SessionService
}

// NewAdminService creates the admin service.
func NewAdminService(backend ports.AdminBackend, session *SessionService) *AdminService {
	return &AdminService{
		backend: backend,
		session: session,
	}
}

// ListVendors returns a page of vendor applications.
func (s *AdminService) ListVendors(ctx context.Context, q ports.VendorQuery) ([]core.Vendor, core.Pagination, error) {
	vendors, pagination, err := s.backend.ListVendors(ctx, q)
	return vendors, pagination, s.intercept(ctx, err)
}

// VendorAction applies a moderation action to a vendor application.
func (s *AdminService) VendorAction(ctx context.Context, vendorID string, action ports.VendorAction) (*core.Vendor, error) {
	vendor, err := s.backend.VendorAction(ctx, vendorID, action)
	return vendor, s.intercept(ctx, err)
}

// ListUsers returns a page of user accounts.
func (s *AdminService) ListUsers(ctx context.Context, q ports.UserQuery) ([]core.UserAccount, core.Pagination, error) {
	users, pagination, err := s.backend.ListUsers(ctx, q)
	return users, pagination, s.intercept(ctx, err)
}

// AssignAdmin grants the admin role to a user.
func (s *AdminService) AssignAdmin(ctx context.Context, userID string, profile core.AdminProfileInput) (*core.UserAccount, error) {
	user, err := s.backend.AssignAdmin(ctx, userID, profile)
	return user, s.intercept(ctx, err)
}

// RevokeAdmin removes the admin role from a user.
func (s *AdminService) RevokeAdmin(ctx context.Context, userID string) (*core.UserAccount, error) {
	user, err := s.backend.RevokeAdmin(ctx, userID)
	return user, s.intercept(ctx, err)
}

// ToggleUserStatus activates or deactivates a user account.
func (s *AdminService) ToggleUserStatus(ctx context.Context, userID string, active bool) (*core.UserAccount, error) {
	user, err := s.backend.ToggleUserStatus(ctx, userID, active)
	return user, s.intercept(ctx, err)
}

// UpdateProfile updates the authenticated admin's own profile.
func (s *AdminService) UpdateProfile(ctx context.Context, profile core.AdminProfileInput) (*core.AdminProfile, error) {
	updated, err := s.backend.UpdateProfile(ctx, profile)
	return updated, s.intercept(ctx, err)
}

// intercept converts an authentication failure into a forced logout.
func (s *AdminService) intercept(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, core.ErrUnauthenticated) {
		if logoutErr := s.session.Logout(ctx); logoutErr != nil {
			fmt.Printf("Warning: forced logout failed: %v\n", logoutErr)
		}
	}
	return err
}
