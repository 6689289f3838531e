package directory

import (
	"time"

	"github.com/google/uuid"
)

// TeamResponse represents a team in API responses
type TeamResponse struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	DepartmentID   *uuid.UUID `json:"department_id,omitempty"`
	UserID         *uuid.UUID `json:"user_id,omitempty"`
	Name           string     `json:"name"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// EmployeeResponse represents an employee in API responses
type EmployeeResponse struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	TeamID         *uuid.UUID `json:"team_id,omitempty"`
	ManagerID      *uuid.UUID `json:"manager_id,omitempty"`
	UserID         *uuid.UUID `json:"user_id,omitempty"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Name           string     `json:"name"`
	Email          string     `json:"email,omitempty"`
	Title          string     `json:"title,omitempty"`
}

// DepartmentResponse represents a department in API responses
type DepartmentResponse struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	HeadID         *uuid.UUID `json:"head_id,omitempty"`
	Name           string     `json:"name"`
}

// UserResponse represents the authenticated user
type UserResponse struct {
	ID             uuid.UUID  `json:"id"`
	ExternalID     string     `json:"external_id"`
	Email          string     `json:"email"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Role           string     `json:"role"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
	EmployeeID     *uuid.UUID `json:"employee_id,omitempty"`
}
