package entities

import (
	"time"

	"github.com/google/uuid"
)

// Team belongs to an organization and optionally a department; UserID is the managing user
type Team struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrganizationID uuid.UUID  `json:"organization_id" gorm:"type:uuid;not null;index"`
	DepartmentID   *uuid.UUID `json:"department_id,omitempty" gorm:"type:uuid;index"`
	UserID         *uuid.UUID `json:"user_id,omitempty" gorm:"type:uuid;index"`
	Name           string     `json:"name" gorm:"type:varchar(255);not null"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Team) TableName() string {
	return "teams"
}
