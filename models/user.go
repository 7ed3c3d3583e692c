package models

import (
	"strings"
	"time"
)

const (
	RolePatient  = "patient"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// User is the identity record behind every patient/provider reference. The
// engine only reads it (name, contact address, role); account management
// lives elsewhere.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email" gorm:"unique"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
