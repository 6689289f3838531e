package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error)

	// FindByExternalID finds a user by identity-provider id
	FindByExternalID(ctx context.Context, externalID string) (*entities.User, error)

	// Update updates a user
	Update(ctx context.Context, user *entities.User) error

	// SetMembership attaches (or, with a nil orgID, detaches) a user to an organization with a role
	SetMembership(ctx context.Context, userID uuid.UUID, orgID *uuid.UUID, role entities.UserRole) error
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Organization, error)
	FindByExternalID(ctx context.Context, externalID string) (*entities.Organization, error)
	Create(ctx context.Context, org *entities.Organization) error
	Update(ctx context.Context, org *entities.Organization) error

	// DeleteByExternalID soft-deletes an organization
	DeleteByExternalID(ctx context.Context, externalID string) error

	// FindOrCreateDefault returns the single-tenant fallback organization
	FindOrCreateDefault(ctx context.Context, name string) (*entities.Organization, error)
}
