package models

import (
	"strings"
	"time"
)

// User is a local account (Principal). Directory-backed accounts carry an
// empty PasswordHash; they can only authenticate through the directory.
type User struct {
	ID               int64      `json:"userId"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Role             Role       `json:"role"`
	Phone            string     `json:"phone,omitempty"`
	DateOfBirth      *time.Time `json:"dateOfBirth,omitempty"`
	Address          string     `json:"address,omitempty"`
	EmergencyContact string     `json:"emergencyContact,omitempty"`
	DepartmentID     *int64     `json:"departmentId,omitempty"`
	IsActive         bool       `json:"isActive"`
	IsFirstLogin     bool       `json:"isFirstLogin"`
	CreatedAt        time.Time  `json:"createdAt"`
	LastLogin        *time.Time `json:"lastLogin,omitempty"`
}

// FirstName returns the first whitespace-separated component of Name.
func (u *User) FirstName() string {
	parts := strings.Fields(u.Name)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// LastName returns everything after the first name component.
func (u *User) LastName() string {
	parts := strings.Fields(u.Name)
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[1:], " ")
}
