// FilePath: server/apiary/internal/models/models.account.go
package models

import (
	"strings"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleBeekeeper Role = "beekeeper"
	RoleOfficer   Role = "officer"
	RoleAdmin     Role = "admin"
)

// legacy spelling still sent by older clients
const legacyOfficerRole = "agricultural_officer"

// ParseRole normalizes a role string. The second return is false for
// anything outside the closed set.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(RoleBeekeeper):
		return RoleBeekeeper, true
	case string(RoleOfficer), legacyOfficerRole:
		return RoleOfficer, true
	case string(RoleAdmin):
		return RoleAdmin, true
	}
	return "", false
}

func (r Role) Valid() bool {
	switch r {
	case RoleBeekeeper, RoleOfficer, RoleAdmin:
		return true
	}
	return false
}

// LandingArea is the dashboard a role lands on after login.
func (r Role) LandingArea() string {
	switch r {
	case RoleOfficer:
		return "officer"
	case RoleAdmin:
		return "admin"
	default:
		return "beekeeper"
	}
}

// Account is a registered user. Email and phone are only readable by the
// account itself and by admins.
type Account struct {
	ID           string    `json:"id" db:"id"`
	FullName     string    `json:"full_name" db:"full_name"`
	Email        string    `json:"email" db:"email" readxs:"owner,admin" writexs:"owner,admin"`
	PasswordHash string    `json:"-" db:"password_hash" readxs:"system" writexs:"system"`
	Role         Role      `json:"role" db:"role" writexs:"admin"`
	Approved     bool      `json:"approved" db:"approved" writexs:"admin"`
	Phone        string    `json:"phone" db:"phone" readxs:"owner,admin" writexs:"owner,admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// AccountUpdate carries an admin edit. Nil fields are left untouched.
type AccountUpdate struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *Role   `json:"role,omitempty"`
	Approved *bool   `json:"approved,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// Registration is the self-service sign-up payload.
type Registration struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Phone           string `json:"phone"`
	Role            string `json:"role"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned on successful login.
type Session struct {
	Token   string   `json:"token"`
	Account *Account `json:"account"`
	Landing string   `json:"landing"`
}

// OfficerContact is what beekeepers see when addressing a report.
type OfficerContact struct {
	ID       string `json:"id" db:"id"`
	FullName string `json:"full_name" db:"full_name"`
	Email    string `json:"email" db:"email"`
}
