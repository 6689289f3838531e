package entities

import (
	"time"

	"github.com/google/uuid"
)

// Department groups teams inside an organization; HeadID is the heading user
type Department struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrganizationID uuid.UUID  `json:"organization_id" gorm:"type:uuid;not null;index"`
	HeadID         *uuid.UUID `json:"head_id,omitempty" gorm:"type:uuid;index"`
	Name           string     `json:"name" gorm:"type:varchar(255);not null"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Department) TableName() string {
	return "departments"
}
