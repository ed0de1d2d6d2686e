package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bazario/console/core"
	"github.com/bazario/console/ports"
	"github.com/bazario/console/service"
)

// ConsoleHandlers contains the HTTP handlers for the console endpoints.
type ConsoleHandlers struct {
	session *service.SessionService
	otp     *service.OTPService
	admin   *service.AdminService
}

// NewConsoleHandlers creates the console handlers.
func NewConsoleHandlers(session *service.SessionService, otp *service.OTPService, admin *service.AdminService) *ConsoleHandlers {
	return &ConsoleHandlers{
		session: session,
		otp:     otp,
		admin:   admin,
	}
}

// SendOTP requests a verification code for a phone number.
func (h *ConsoleHandlers) SendOTP(c *gin.Context) {
	var req struct {
		PhoneNumber string `json:"phoneNumber" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	challenge, err := h.otp.RequestCode(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, challengeResponse(challenge, h.otp.Remaining()))
}

// VerifyOTP submits a code for the outstanding challenge and, on success,
// establishes the session.
func (h *ConsoleHandlers) VerifyOTP(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	pair, user, err := h.otp.VerifyCode(c.Request.Context(), req.Code)
	if err != nil {
		// A 401/403 from the verify endpoint means the attempt cannot be
		// repaired client-side: drop any stored session instead of showing
		// a retryable challenge error.
		if errors.Is(err, core.ErrUnauthenticated) {
			if logoutErr := h.session.Logout(c.Request.Context()); logoutErr != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset session"})
				return
			}
		}
		respondError(c, err)
		return
	}

	if err := h.session.Login(c.Request.Context(), *pair, *user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ResendOTP requests a fresh code once the countdown has elapsed.
func (h *ConsoleHandlers) ResendOTP(c *gin.Context) {
	challenge, err := h.otp.Resend(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, challengeResponse(challenge, h.otp.Remaining()))
}

// CancelOTP discards the outstanding challenge ("change number").
func (h *ConsoleHandlers) CancelOTP(c *gin.Context) {
	h.otp.Cancel()
	c.JSON(http.StatusOK, gin.H{"message": "Challenge cancelled"})
}

// Logout clears the session.
func (h *ConsoleHandlers) Logout(c *gin.Context) {
	if err := h.session.Logout(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Session reports the current session state.
func (h *ConsoleHandlers) Session(c *gin.Context) {
	response := gin.H{"state": h.session.State().String()}
	if user, ok := h.session.Current(); ok {
		response["user"] = user
	}
	if _, ok := h.otp.Challenge(); ok {
		response["resendIn"] = int(h.otp.Remaining().Seconds())
	}
	c.JSON(http.StatusOK, response)
}

// Me returns the identity the guard resolved for this request.
func (h *ConsoleHandlers) Me(c *gin.Context) {
	user, ok := IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found in context"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Vendors lists vendor applications.
func (h *ConsoleHandlers) Vendors(c *gin.Context) {
	q := ports.VendorQuery{
		Status:     c.Query("status"),
		VendorType: c.Query("vendorType"),
		Page:       intQuery(c, "page"),
		Limit:      intQuery(c, "limit"),
	}

	vendors, pagination, err := h.admin.ListVendors(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendors": vendors, "pagination": pagination})
}

// VendorAction approves, rejects or suspends a vendor application.
func (h *ConsoleHandlers) VendorAction(c *gin.Context) {
	action := ports.VendorAction(c.Param("action"))
	switch action {
	case ports.VendorApprove, ports.VendorReject, ports.VendorSuspend:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown vendor action"})
		return
	}

	vendor, err := h.admin.VendorAction(c.Request.Context(), c.Param("id"), action)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendor": vendor})
}

// Users lists user accounts.
func (h *ConsoleHandlers) Users(c *gin.Context) {
	q := ports.UserQuery{
		Role:  c.Query("role"),
		Page:  intQuery(c, "page"),
		Limit: intQuery(c, "limit"),
	}
	if raw := c.Query("isActive"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			q.IsActive = &active
		}
	}

	users, pagination, err := h.admin.ListUsers(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "pagination": pagination})
}

// AssignAdmin grants the admin role to a user.
func (h *ConsoleHandlers) AssignAdmin(c *gin.Context) {
	var req struct {
		FullName    string   `json:"fullName" binding:"required"`
		Email       string   `json:"email" binding:"required"`
		Permissions []string `json:"permissions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.admin.AssignAdmin(c.Request.Context(), c.Param("id"), core.AdminProfileInput{
		FullName:    req.FullName,
		Email:       req.Email,
		Permissions: req.Permissions,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// RevokeAdmin removes the admin role from a user.
func (h *ConsoleHandlers) RevokeAdmin(c *gin.Context) {
	user, err := h.admin.RevokeAdmin(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ToggleUserStatus activates or deactivates a user account.
func (h *ConsoleHandlers) ToggleUserStatus(c *gin.Context) {
	var req struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.admin.ToggleUserStatus(c.Request.Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile updates the authenticated admin's own profile.
func (h *ConsoleHandlers) UpdateProfile(c *gin.Context) {
	var req core.AdminProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	profile, err := h.admin.UpdateProfile(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func challengeResponse(challenge core.Challenge, remaining time.Duration) gin.H {
	return gin.H{
		"verificationId": challenge.VerificationID,
		"timeout":        int(remaining.Seconds()),
	}
}

// respondError maps service errors to HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrInvalidPhone),
		errors.Is(err, core.ErrInvalidCode),
		errors.Is(err, core.ErrNoChallenge):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrChallengeRejected):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrResendThrottled):
		status = http.StatusTooManyRequests
	case errors.Is(err, core.ErrRequestInFlight):
		status = http.StatusConflict
	case errors.Is(err, core.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, core.ErrRequestFailed), errors.Is(err, core.ErrBadResponse):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func intQuery(c *gin.Context, key string) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return value
}
