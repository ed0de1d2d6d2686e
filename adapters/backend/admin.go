package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bazario/console/core"
	"github.com/bazario/console/ports"
)

type vendorListData struct {
	Vendors    []core.Vendor   `json:"vendors"`
	Pagination core.Pagination `json:"pagination"`
}

type userListData struct {
	Users      []core.UserAccount `json:"users"`
	Pagination core.Pagination    `json:"pagination"`
}

type assignAdminData struct {
	User         core.UserAccount   `json:"user"`
	AdminProfile *core.AdminProfile `json:"adminProfile"`
}

type toggleStatusRequest struct {
	IsActive bool `json:"isActive"`
}

// ListVendors returns a page of vendor applications.
func (c *Client) ListVendors(ctx context.Context, q ports.VendorQuery) ([]core.Vendor, core.Pagination, error) {
	query := url.Values{}
	if q.Status != "" {
		query.Set("status", q.Status)
	}
	if q.VendorType != "" {
		query.Set("vendorType", q.VendorType)
	}
	setPageParams(query, q.Page, q.Limit)

	env, err := c.do(ctx, http.MethodGet, "/auth/admin/vendors", query, nil, true)
	if err != nil {
		return nil, core.Pagination{}, err
	}

	var data vendorListData
	if err := c.adminData(env, &data); err != nil {
		return nil, core.Pagination{}, err
	}
	return data.Vendors, data.Pagination, nil
}

// VendorAction applies a moderation action (approve, reject, suspend) to a
// vendor application and returns the updated vendor.
func (c *Client) VendorAction(ctx context.Context, vendorID string, action ports.VendorAction) (*core.Vendor, error) {
	path := "/auth/admin/vendor/" + url.PathEscape(vendorID) + "/" + string(action)

	env, err := c.do(ctx, http.MethodPut, path, nil, nil, true)
	if err != nil {
		return nil, err
	}

	var vendor core.Vendor
	if err := c.adminData(env, &vendor); err != nil {
		return nil, err
	}
	return &vendor, nil
}

// ListUsers returns a page of user accounts.
func (c *Client) ListUsers(ctx context.Context, q ports.UserQuery) ([]core.UserAccount, core.Pagination, error) {
	query := url.Values{}
	if q.Role != "" {
		query.Set("role", q.Role)
	}
	if q.IsActive != nil {
		query.Set("isActive", strconv.FormatBool(*q.IsActive))
	}
	setPageParams(query, q.Page, q.Limit)

	env, err := c.do(ctx, http.MethodGet, "/auth/admin/users", query, nil, true)
	if err != nil {
		return nil, core.Pagination{}, err
	}

	var data userListData
	if err := c.adminData(env, &data); err != nil {
		return nil, core.Pagination{}, err
	}
	return data.Users, data.Pagination, nil
}

// AssignAdmin grants the admin role to a user and returns the updated
// account with its new admin profile attached.
func (c *Client) AssignAdmin(ctx context.Context, userID string, profile core.AdminProfileInput) (*core.UserAccount, error) {
	path := "/auth/admin/user/" + url.PathEscape(userID) + "/assign-admin"

	env, err := c.do(ctx, http.MethodPut, path, nil, profile, true)
	if err != nil {
		return nil, err
	}

	var data assignAdminData
	if err := c.adminData(env, &data); err != nil {
		return nil, err
	}

	user := data.User
	if user.AdminProfile == nil {
		user.AdminProfile = data.AdminProfile
	}
	return &user, nil
}

// RevokeAdmin removes the admin role from a user.
func (c *Client) RevokeAdmin(ctx context.Context, userID string) (*core.UserAccount, error) {
	path := "/auth/admin/user/" + url.PathEscape(userID) + "/revoke-admin"

	env, err := c.do(ctx, http.MethodPut, path, nil, nil, true)
	if err != nil {
		return nil, err
	}

	var user core.UserAccount
	if err := c.adminData(env, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ToggleUserStatus activates or deactivates a user account.
func (c *Client) ToggleUserStatus(ctx context.Context, userID string, active bool) (*core.UserAccount, error) {
	path := "/auth/admin/user/" + url.PathEscape(userID) + "/toggle-status"

	env, err := c.do(ctx, http.MethodPut, path, nil, toggleStatusRequest{IsActive: active}, true)
	if err != nil {
		return nil, err
	}

	var user core.UserAccount
	if err := c.adminData(env, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates the authenticated admin's own profile.
func (c *Client) UpdateProfile(ctx context.Context, profile core.AdminProfileInput) (*core.AdminProfile, error) {
	env, err := c.do(ctx, http.MethodPut, "/auth/admin/profile", nil, profile, true)
	if err != nil {
		return nil, err
	}

	var updated core.AdminProfile
	if err := c.adminData(env, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// adminData validates the success flag and decodes the data field.
func (c *Client) adminData(env *envelope, out any) error {
	if !env.Success {
		return fmt.Errorf("%w: %s", core.ErrRequestFailed, env.Message)
	}
	return decodeData(env, out)
}

func setPageParams(query url.Values, page, limit int) {
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
}

var _ ports.AdminBackend = (*Client)(nil)
