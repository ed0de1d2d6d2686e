package core

import "github.com/shopspring/decimal"

// Vendor statuses as reported by the backend.
const (
	VendorStatusPending   = "PENDING"
	VendorStatusApproved  = "APPROVED"
	VendorStatusRejected  = "REJECTED"
	VendorStatusSuspended = "SUSPENDED"
)

// Vendor types as reported by the backend.
const (
	VendorTypeHotel     = "HOTEL"
	VendorTypeAdventure = "ADVENTURE"
	VendorTypeTransport = "TRANSPORT"
	VendorTypeMarket    = "MARKET"
)

// BankDetails holds a vendor's payout account.
type BankDetails struct {
	ID                string `json:"id"`
	AccountHolderName string `json:"accountHolderName"`
	AccountNumber     string `json:"accountNumber"`
	BankName          string `json:"bankName"`
	IFSCCode          string `json:"ifscCode"`
	BranchName        string `json:"branchName"`
}

// VendorUser is the account summary embedded in a vendor record.
type VendorUser struct {
	PhoneNumber string `json:"phoneNumber"`
	CreatedAt   string `json:"createdAt"`
}

// Vendor is a marketplace vendor application.
type Vendor struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	BusinessName    string          `json:"businessName"`
	OwnerName       string          `json:"ownerName"`
	ContactNumbers  []string        `json:"contactNumbers"`
	Email           string          `json:"email"`
	BusinessAddress string          `json:"businessAddress"`
	GoogleMapsLink  string          `json:"googleMapsLink,omitempty"`
	GSTNumber       string          `json:"gstNumber"`
	PANNumber       string          `json:"panNumber"`
	AadhaarNumber   string          `json:"aadhaarNumber"`
	VendorType      string          `json:"vendorType"`
	Status          string          `json:"status"`
	CommissionRate  decimal.Decimal `json:"commissionRate"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`
	User            VendorUser      `json:"user"`
	BankDetails     *BankDetails    `json:"bankDetails,omitempty"`
}

// VendorProfile is the vendor summary embedded in a user record.
type VendorProfile struct {
	BusinessName string `json:"businessName"`
	Status       string `json:"status"`
	VendorType   string `json:"vendorType"`
}

// AdminProfile is an admin's profile record.
type AdminProfile struct {
	ID          string   `json:"id"`
	UserID      string   `json:"userId"`
	FullName    string   `json:"fullName"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// AdminProfileInput is the writable subset of an admin profile.
type AdminProfileInput struct {
	FullName    string   `json:"fullName"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
}

// UserAccount is a platform user with optional role profiles.
type UserAccount struct {
	ID            string         `json:"id"`
	PhoneNumber   string         `json:"phoneNumber"`
	Role          string         `json:"role"`
	IsActive      bool           `json:"isActive"`
	CreatedAt     string         `json:"createdAt"`
	UpdatedAt     string         `json:"updatedAt"`
	VendorProfile *VendorProfile `json:"vendorProfile,omitempty"`
	AdminProfile  *AdminProfile  `json:"adminProfile,omitempty"`
}

// Pagination describes a page of a list response.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}
