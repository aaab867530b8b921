package auth

import (
	"errors"
	"fmt"
	"time"
)

// Role represents an authorisation tier in the system.
type Role string

const (
	// RoleAdmin manages an installation: creates customer accounts and
	// provisions cages. At most five customers per admin.
	RoleAdmin Role = "admin"

	// RoleCustomer is a farm operator assigned a monitor. Customers view
	// the cages assigned to their monitor; they cannot create accounts.
	RoleCustomer Role = "customer"
)

// ParseRole converts a wire string into a Role, rejecting unknown values.
// An empty string defaults to admin (login treats a missing user_type as
// an admin login attempt).
func ParseRole(s string) (Role, error) {
	switch s {
	case "":
		return RoleAdmin, nil
	case string(RoleAdmin):
		return RoleAdmin, nil
	case string(RoleCustomer):
		return RoleCustomer, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// User represents a human account (admin or customer).
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number"`
	PasswordHash string    `json:"-"` // never serialised
	Role         Role      `json:"type"`
	SpmID        string    `json:"spm_id,omitempty"`
	CreatedBy    string    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session represents a user's single refresh session. A user owns at most
// one session; login and refresh both replace it (new id each time).
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	RefreshToken string    `json:"-"` // never serialised
	ExpiresAt    time.Time `json:"expires_at"`
	Revoked      bool      `json:"revoked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"-"` // refresh expiry, used for the cookie
}

// Identity is the resolved caller of an authenticated request.
type Identity struct {
	UserID string
	Role   Role
}

// NewAdmin is the input for public admin signup.
type NewAdmin struct {
	Name        string
	Email       string
	PhoneNumber string
	Password    string
}

// NewCustomer is the input for admin-driven customer creation. The
// starter password is generated, not supplied.
type NewCustomer struct {
	Name        string
	Email       string
	PhoneNumber string
	SpmID       string
}

// CreatedCustomer carries the generated starter password exactly once.
type CreatedCustomer struct {
	User     *User
	Password string
}

// Sentinel errors for auth operations.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid user type")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrSessionNotFound    = errors.New("session not found")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrPasswordMismatch   = errors.New("unable to update password")
	ErrCustomerLimit      = errors.New("maximum number of customers has been created")
)
