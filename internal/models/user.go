package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/example/estatedeli/internal/utils"
)

// User roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Address is the structured delivery address stored on a user profile.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// User represents a registered customer or admin.
type User struct {
	BaseModel
	Email           string     `gorm:"uniqueIndex" json:"email"`
	PasswordHash    string     `json:"-"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Phone           string     `json:"phone"`
	Address         Address    `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Role            string     `gorm:"default:customer" json:"role"`
	IsEmailVerified bool       `json:"isEmailVerified"`
	OTPHash         string     `json:"-"`
	OTPExpires      *time.Time `json:"-"`
	OTPAttempts     int        `json:"-"`
	Orders          []Order    `json:"orders,omitempty"`
}

// FullName joins first and last name for email greetings and order snapshots.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// GenerateOTP creates a fresh verification code valid for ttl, storing only
// its bcrypt digest and resetting the attempt counter. The plaintext code is
// returned once for delivery and never persisted.
func (u *User) GenerateOTP(ttl time.Duration) (string, error) {
	code, err := utils.GenerateOTPCode()
	if err != nil {
		return "", err
	}

	hash, err := utils.HashPassword(code)
	if err != nil {
		return "", err
	}

	expires := time.Now().Add(ttl)
	u.OTPHash = hash
	u.OTPExpires = &expires
	u.OTPAttempts = 0

	return code, nil
}

// VerifyOTP checks a submitted code against the pending one. A mismatch
// increments the attempt counter; the caller must persist the user either
// way. On success the user is marked verified and the OTP state is cleared.
// Verification is one-way: nothing un-verifies a user afterwards.
func (u *User) VerifyOTP(code string, maxAttempts int) bool {
	if u.OTPHash == "" || u.OTPExpires == nil {
		return false
	}

	if u.OTPAttempts >= maxAttempts {
		return false
	}

	if time.Now().After(*u.OTPExpires) {
		return false
	}

	if utils.CheckPassword(u.OTPHash, code) {
		u.IsEmailVerified = true
		u.ClearOTP()
		return true
	}

	u.OTPAttempts++
	return false
}

// ClearOTP removes any pending verification code.
func (u *User) ClearOTP() {
	u.OTPHash = ""
	u.OTPExpires = nil
	u.OTPAttempts = 0
}

// UserProfile is the public projection returned by auth endpoints.
type UserProfile struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Phone           string    `json:"phone"`
	Address         Address   `json:"address"`
	Role            string    `json:"role"`
	IsEmailVerified bool      `json:"isEmailVerified"`
}

// Profile returns the public projection of the user.
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Phone:           u.Phone,
		Address:         u.Address,
		Role:            u.Role,
		IsEmailVerified: u.IsEmailVerified,
	}
}
