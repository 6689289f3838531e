package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Employee is a managed person. ManagerID points at another Employee and forms the reporting hierarchy.
type Employee struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrganizationID uuid.UUID  `json:"organization_id" gorm:"type:uuid;not null;index"`
	TeamID         *uuid.UUID `json:"team_id,omitempty" gorm:"type:uuid;index"`
	ManagerID      *uuid.UUID `json:"manager_id,omitempty" gorm:"type:uuid;index"`
	UserID         *uuid.UUID `json:"user_id,omitempty" gorm:"type:uuid;uniqueIndex"`
	FirstName      string     `json:"first_name" gorm:"type:varchar(255)"`
	LastName       string     `json:"last_name" gorm:"type:varchar(255)"`
	Email          string     `json:"email" gorm:"type:varchar(255)"`
	Title          string     `json:"title" gorm:"type:varchar(255)"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (Employee) TableName() string {
	return "employees"
}

// DisplayName returns the employee's full name, falling back to the email
func (e *Employee) DisplayName() string {
	if e == nil {
		return ""
	}
	name := strings.TrimSpace(e.FirstName + " " + e.LastName)
	if name != "" {
		return name
	}
	return e.Email
}

// IsManagerUser reports whether the employee is linked to a user with the MANAGER role
func (e *Employee) IsManagerUser() bool {
	return e.User != nil && e.User.Role == RoleManager
}
