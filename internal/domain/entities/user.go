package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRole defines user roles
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleManager UserRole = "MANAGER"
	RoleUser    UserRole = "USER"
)

// IsValid checks if the user role is valid
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// ParseUserRole maps a free-form role string to a UserRole, defaulting to RoleUser
func ParseUserRole(s string) UserRole {
	role := UserRole(strings.ToUpper(strings.TrimSpace(s)))
	if role.IsValid() {
		return role
	}
	return RoleUser
}

// User is an authenticated principal mirrored from the identity provider
type User struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ExternalID     string     `json:"external_id" gorm:"type:varchar(255);uniqueIndex;not null"`
	Email          string     `json:"email" gorm:"type:varchar(255);index"`
	FirstName      string     `json:"first_name" gorm:"type:varchar(255)"`
	LastName       string     `json:"last_name" gorm:"type:varchar(255)"`
	Role           UserRole   `json:"role" gorm:"type:varchar(20);default:'USER';not null"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty" gorm:"type:uuid;index"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// DisplayName returns the user's full name, falling back to the email
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	return u.Email
}

// Principal builds the access-control principal for this user
func (u *User) Principal() Principal {
	return Principal{
		UserID:         u.ID,
		Role:           u.Role,
		OrganizationID: u.OrganizationID,
	}
}

// Validate validates user data
func (u *User) Validate() error {
	if u.ExternalID == "" {
		return ErrInvalidExternalID
	}
	if !u.Role.IsValid() {
		return ErrInvalidRole
	}
	return nil
}
