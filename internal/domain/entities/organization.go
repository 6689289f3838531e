package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization is the tenant boundary every team, employee and meeting belongs to
type Organization struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ExternalID *string        `json:"external_id,omitempty" gorm:"type:varchar(255);uniqueIndex"`
	Name       string         `json:"name" gorm:"type:varchar(255);not null"`
	Slug       *string        `json:"slug,omitempty" gorm:"type:varchar(255)"`
	IsDefault  bool           `json:"is_default" gorm:"default:false;not null"`
	CreatedAt  time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name for GORM
func (Organization) TableName() string {
	return "organizations"
}

// NewOrganization creates an organization mirrored from the identity provider
func NewOrganization(externalID, name string) *Organization {
	now := time.Now()
	org := &Organization{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if externalID != "" {
		org.ExternalID = &externalID
	}
	return org
}
