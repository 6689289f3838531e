package entities

import "github.com/google/uuid"

// Principal is the requesting actor whose role and organization drive access decisions
type Principal struct {
	UserID         uuid.UUID
	Role           UserRole
	OrganizationID *uuid.UUID
}

// HasOrganization reports whether the principal is attached to an organization
func (p Principal) HasOrganization() bool {
	return p.OrganizationID != nil && *p.OrganizationID != uuid.Nil
}

// HasRole reports whether the principal holds one of the given roles
func (p Principal) HasRole(roles ...UserRole) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
