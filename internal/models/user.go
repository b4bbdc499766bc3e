package models

import (
	"time"
)

// Role values for User.Role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a customer account. Accounts created through Google or
// phone login carry no password hash.
type User struct {
	BaseModel
	Name             string     `json:"name"`
	Email            string     `gorm:"uniqueIndex" json:"email"`
	Phone            *string    `gorm:"uniqueIndex" json:"phone,omitempty"`
	PhoneVerified    bool       `json:"phone_verified"`
	PasswordHash     string     `json:"-"`
	GoogleID         string     `json:"-"`
	Avatar           string     `json:"avatar,omitempty"`
	Address          Address    `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	ResetTokenHash   *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	Role             string     `gorm:"default:user" json:"role"`
	Orders           []Order    `json:"orders,omitempty"`
}

// HasPassword reports whether the account can authenticate with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
