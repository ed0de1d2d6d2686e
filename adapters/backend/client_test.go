package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bazario/console/adapters/store"
	"github.com/bazario/console/core"
	"github.com/bazario/console/ports"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, ports.TokenStore) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tokenStore := store.NewMemoryStore()
	return NewClient(server.URL, tokenStore), tokenStore
}

func TestSendOTP_Success(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/send-otp", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "9876543210", req["phoneNumber"])

		// The backend reports the timeout as a numeric string.
		w.Write([]byte(`{"success":true,"message":"OTP sent","data":{"verificationId":"ver-1","timeout":"60"}}`))
	})

	id, timeout, err := client.SendOTP(context.Background(), "9876543210")
	require.NoError(t, err)
	require.Equal(t, "ver-1", id)
	require.Equal(t, 60*time.Second, timeout)
}

func TestSendOTP_NumericTimeout(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"verificationId":"ver-1","timeout":45}}`))
	})

	_, timeout, err := client.SendOTP(context.Background(), "9876543210")
	require.NoError(t, err)
	require.Equal(t, 45*time.Second, timeout)
}

func TestSendOTP_BackendRejection(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"daily limit reached"}`))
	})

	_, _, err := client.SendOTP(context.Background(), "9876543210")
	require.ErrorIs(t, err, core.ErrChallengeRejected)
	require.ErrorContains(t, err, "daily limit reached")
}

func TestSendOTP_ServerError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"message":"boom"}`))
	})

	_, _, err := client.SendOTP(context.Background(), "9876543210")
	require.ErrorIs(t, err, core.ErrChallengeRejected)
}

func TestSendOTP_MalformedEnvelope(t *testing.T) {
	t.Parallel()

	for name, body := range map[string]string{
		"not json":     `<html>oops</html>`,
		"missing data": `{"success":true,"message":"ok"}`,
		"no id":        `{"success":true,"data":{"timeout":"60"}}`,
		"bad timeout":  `{"success":true,"data":{"verificationId":"v","timeout":"soon"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})
			_, _, err := client.SendOTP(context.Background(), "9876543210")
			require.ErrorIs(t, err, core.ErrBadResponse)
		})
	}
}

func TestVerifyOTP_Success(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/verify-otp", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "9876543210", req["phoneNumber"])
		require.Equal(t, "ver-1", req["verificationId"])
		require.Equal(t, "1234", req["code"])

		w.Write([]byte(`{"success":true,"data":{
			"accessToken":"acc-1","refreshToken":"ref-1",
			"user":{"id":"u-1","phoneNumber":"9876543210","role":"ADMIN","isActive":true}
		}}`))
	})

	pair, user, err := client.VerifyOTP(context.Background(), "9876543210", "ver-1", "1234")
	require.NoError(t, err)
	require.Equal(t, "acc-1", pair.AccessToken)
	require.Equal(t, "ref-1", pair.RefreshToken)
	require.Equal(t, "u-1", user.ID)
	require.Equal(t, core.RoleAdmin, user.Role)
	require.True(t, user.IsActive)
}

func TestVerifyOTP_Unauthorized(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"invalid token"}`))
	})

	_, _, err := client.VerifyOTP(context.Background(), "9876543210", "ver-1", "1234")
	require.ErrorIs(t, err, core.ErrUnauthenticated)
	require.NotErrorIs(t, err, core.ErrChallengeRejected)
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"Invalid OTP"}`))
	})

	_, _, err := client.VerifyOTP(context.Background(), "9876543210", "ver-1", "1234")
	require.ErrorIs(t, err, core.ErrChallengeRejected)
	require.ErrorContains(t, err, "Invalid OTP")
}

func TestVerifyOTP_MissingTokens(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"user":{"id":"u-1"}}}`))
	})

	_, _, err := client.VerifyOTP(context.Background(), "9876543210", "ver-1", "1234")
	require.ErrorIs(t, err, core.ErrBadResponse)
}

func TestListVendors(t *testing.T) {
	t.Parallel()

	client, tokenStore := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/auth/admin/vendors", r.URL.Path)
		require.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))

		query := r.URL.Query()
		require.Equal(t, "PENDING", query.Get("status"))
		require.Equal(t, "HOTEL", query.Get("vendorType"))
		require.Equal(t, "2", query.Get("page"))
		require.Equal(t, "25", query.Get("limit"))

		w.Write([]byte(`{"success":true,"data":{
			"vendors":[{
				"id":"v-1","businessName":"Hill View Stays","vendorType":"HOTEL",
				"status":"PENDING","commissionRate":12.5,
				"user":{"phoneNumber":"9876543210","createdAt":"2024-01-01"}
			}],
			"pagination":{"total":41,"page":2,"pages":3}
		}}`))
	})
	require.NoError(t, tokenStore.Set(context.Background(), "access-1", "refresh-1"))

	vendors, pagination, err := client.ListVendors(context.Background(), ports.VendorQuery{
		Status:     core.VendorStatusPending,
		VendorType: core.VendorTypeHotel,
		Page:       2,
		Limit:      25,
	})
	require.NoError(t, err)
	require.Len(t, vendors, 1)
	require.Equal(t, "Hill View Stays", vendors[0].BusinessName)
	require.True(t, vendors[0].CommissionRate.Equal(decimal.RequireFromString("12.5")))
	require.Equal(t, core.Pagination{Total: 41, Page: 2, Pages: 3}, pagination)
}

func TestAdminCall_NoStoredToken(t *testing.T) {
	t.Parallel()

	reached := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		reached = true
	})

	_, _, err := client.ListVendors(context.Background(), ports.VendorQuery{})
	require.ErrorIs(t, err, core.ErrUnauthenticated)
	require.False(t, reached, "a missing token must fail before any network call")
}

func TestVendorAction(t *testing.T) {
	t.Parallel()

	client, tokenStore := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/auth/admin/vendor/v-1/approve", r.URL.Path)
		w.Write([]byte(`{"success":true,"data":{"id":"v-1","status":"APPROVED"}}`))
	})
	require.NoError(t, tokenStore.Set(context.Background(), "access-1", "refresh-1"))

	vendor, err := client.VendorAction(context.Background(), "v-1", ports.VendorApprove)
	require.NoError(t, err)
	require.Equal(t, core.VendorStatusApproved, vendor.Status)
}

func TestToggleUserStatus(t *testing.T) {
	t.Parallel()

	client, tokenStore := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/admin/user/u-1/toggle-status", r.URL.Path)

		var req map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.False(t, req["isActive"])

		w.Write([]byte(`{"success":true,"data":{"id":"u-1","isActive":false}}`))
	})
	require.NoError(t, tokenStore.Set(context.Background(), "access-1", "refresh-1"))

	user, err := client.ToggleUserStatus(context.Background(), "u-1", false)
	require.NoError(t, err)
	require.False(t, user.IsActive)
}

func TestAssignAdmin_AttachesProfile(t *testing.T) {
	t.Parallel()

	client, tokenStore := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/admin/user/u-1/assign-admin", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Asha Rao", req["fullName"])

		w.Write([]byte(`{"success":true,"data":{
			"user":{"id":"u-1","role":"ADMIN"},
			"adminProfile":{"fullName":"Asha Rao","email":"asha@example.com","permissions":["vendors"]}
		}}`))
	})
	require.NoError(t, tokenStore.Set(context.Background(), "access-1", "refresh-1"))

	user, err := client.AssignAdmin(context.Background(), "u-1", core.AdminProfileInput{
		FullName:    "Asha Rao",
		Email:       "asha@example.com",
		Permissions: []string{"vendors"},
	})
	require.NoError(t, err)
	require.Equal(t, core.RoleAdmin, user.Role)
	require.NotNil(t, user.AdminProfile)
	require.Equal(t, "Asha Rao", user.AdminProfile.FullName)
}

func TestListUsers_Forbidden(t *testing.T) {
	t.Parallel()

	client, tokenStore := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"success":false,"message":"insufficient permissions"}`))
	})
	require.NoError(t, tokenStore.Set(context.Background(), "access-1", "refresh-1"))

	_, _, err := client.ListUsers(context.Background(), ports.UserQuery{})
	require.ErrorIs(t, err, core.ErrUnauthenticated)
}
