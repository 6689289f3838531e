package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/domain/repositories"
)

// orgAdminRole is the identity provider's organization admin role key
const orgAdminRole = "org:admin"

// Config controls tenancy
type Config struct {
	// MultiTenant mirrors identity-provider organizations; when false every user
	// joins a single default organization and organization events are ignored
	MultiTenant         bool
	DefaultOrganization string
}

// UserProfile is a user as described by the identity provider
type UserProfile struct {
	ExternalID string
	Email      string
	FirstName  string
	LastName   string
	// Role comes from public metadata and may be empty
	Role string
}

// OrganizationProfile is an organization as described by the identity provider
type OrganizationProfile struct {
	ExternalID string
	Name       string
	Slug       string
}

// Membership links a provider user to a provider organization
type Membership struct {
	OrganizationExternalID string
	UserExternalID         string
	// OrgRole is the provider membership role, e.g. "org:admin" or "org:member"
	OrgRole string
	// MetadataRole is the role from the user's public metadata
	MetadataRole string
}

// Service mirrors identity-provider users, organizations and memberships into local records
type Service struct {
	users         repositories.UserRepository
	organizations repositories.OrganizationRepository
	employees     repositories.EmployeeRepository
	cfg           Config
	logger        *zap.Logger
}

// NewService creates a new identity sync service
func NewService(
	users repositories.UserRepository,
	organizations repositories.OrganizationRepository,
	employees repositories.EmployeeRepository,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultOrganization == "" {
		cfg.DefaultOrganization = "Default Organization"
	}
	return &Service{
		users:         users,
		organizations: organizations,
		employees:     employees,
		cfg:           cfg,
		logger:        logger,
	}
}

// MultiTenant reports whether organization events are mirrored
func (s *Service) MultiTenant() bool {
	return s.cfg.MultiTenant
}

// SyncUser creates or updates the local user. In single-tenant mode the user is
// also attached to the default organization.
func (s *Service) SyncUser(ctx context.Context, profile UserProfile) (*entities.User, error) {
	if strings.TrimSpace(profile.ExternalID) == "" {
		return nil, entities.ErrInvalidExternalID
	}

	user, err := s.users.FindByExternalID(ctx, profile.ExternalID)
	switch {
	case errors.Is(err, entities.ErrUserNotFound):
		now := time.Now()
		user = &entities.User{
			ID:         uuid.New(),
			ExternalID: profile.ExternalID,
			Email:      profile.Email,
			FirstName:  profile.FirstName,
			LastName:   profile.LastName,
			Role:       entities.ParseUserRole(profile.Role),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		s.logger.Info("user created", zap.String("external_id", user.ExternalID))
	case err != nil:
		return nil, err
	default:
		user.Email = profile.Email
		user.FirstName = profile.FirstName
		user.LastName = profile.LastName
		if profile.Role != "" {
			user.Role = entities.ParseUserRole(profile.Role)
		}
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
		s.logger.Info("user updated", zap.String("external_id", user.ExternalID))
	}

	if s.cfg.MultiTenant {
		return user, nil
	}

	org, err := s.organizations.FindOrCreateDefault(ctx, s.cfg.DefaultOrganization)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve default organization: %w", err)
	}
	if err := s.attach(ctx, user, org.ID, user.Role); err != nil {
		return nil, err
	}
	return user, nil
}

// SyncOrganization creates or updates an organization. It returns nil in single-tenant mode.
func (s *Service) SyncOrganization(ctx context.Context, profile OrganizationProfile) (*entities.Organization, error) {
	if !s.cfg.MultiTenant {
		return nil, nil
	}
	if strings.TrimSpace(profile.ExternalID) == "" {
		return nil, entities.ErrInvalidExternalID
	}

	org, err := s.organizations.FindByExternalID(ctx, profile.ExternalID)
	switch {
	case errors.Is(err, entities.ErrOrganizationNotFound):
		org = entities.NewOrganization(profile.ExternalID, profile.Name)
		if profile.Slug != "" {
			org.Slug = &profile.Slug
		}
		if err := s.organizations.Create(ctx, org); err != nil {
			return nil, err
		}
		s.logger.Info("organization created", zap.String("external_id", profile.ExternalID))
	case err != nil:
		return nil, err
	default:
		org.Name = profile.Name
		if profile.Slug != "" {
			org.Slug = &profile.Slug
		}
		if err := s.organizations.Update(ctx, org); err != nil {
			return nil, err
		}
		s.logger.Info("organization updated", zap.String("external_id", profile.ExternalID))
	}
	return org, nil
}

// DeleteOrganization soft-deletes an organization; unknown ids are a no-op
func (s *Service) DeleteOrganization(ctx context.Context, externalID string) error {
	if !s.cfg.MultiTenant {
		return nil
	}
	err := s.organizations.DeleteByExternalID(ctx, externalID)
	if err != nil && !errors.Is(err, entities.ErrOrganizationNotFound) {
		return err
	}
	s.logger.Info("organization deleted", zap.String("external_id", externalID))
	return nil
}

// AddMembership attaches the user to the organization with the membership role and
// makes sure the user has an employee record there
func (s *Service) AddMembership(ctx context.Context, m Membership) error {
	user, err := s.users.FindByExternalID(ctx, m.UserExternalID)
	if err != nil {
		return err
	}
	org, err := s.membershipOrganization(ctx, m)
	if err != nil {
		return err
	}
	return s.attach(ctx, user, org.ID, MembershipRole(m))
}

// RemoveMembership detaches the user from the organization and removes the linked
// employee record. Ignored in single-tenant mode and for unknown users or organizations.
func (s *Service) RemoveMembership(ctx context.Context, m Membership) error {
	if !s.cfg.MultiTenant {
		return nil
	}
	user, err := s.users.FindByExternalID(ctx, m.UserExternalID)
	if errors.Is(err, entities.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	org, err := s.organizations.FindByExternalID(ctx, m.OrganizationExternalID)
	if errors.Is(err, entities.ErrOrganizationNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if user.OrganizationID == nil || *user.OrganizationID != org.ID {
		return nil
	}

	if err := s.employees.DeleteByUserID(ctx, org.ID, user.ID); err != nil {
		return err
	}
	if err := s.users.SetMembership(ctx, user.ID, nil, entities.RoleUser); err != nil {
		return err
	}
	s.logger.Info("membership removed",
		zap.String("user_id", user.ID.String()),
		zap.String("organization_id", org.ID.String()),
	)
	return nil
}

// MembershipRole maps a membership to a local role: provider admins become ADMIN,
// otherwise the metadata role applies, defaulting to USER
func MembershipRole(m Membership) entities.UserRole {
	if m.OrgRole == orgAdminRole {
		return entities.RoleAdmin
	}
	return entities.ParseUserRole(m.MetadataRole)
}

func (s *Service) membershipOrganization(ctx context.Context, m Membership) (*entities.Organization, error) {
	if !s.cfg.MultiTenant {
		return s.organizations.FindOrCreateDefault(ctx, s.cfg.DefaultOrganization)
	}
	return s.organizations.FindByExternalID(ctx, m.OrganizationExternalID)
}

func (s *Service) attach(ctx context.Context, user *entities.User, orgID uuid.UUID, role entities.UserRole) error {
	if err := s.users.SetMembership(ctx, user.ID, &orgID, role); err != nil {
		return err
	}
	user.OrganizationID = &orgID
	user.Role = role

	_, err := s.employees.FindByUserID(ctx, orgID, user.ID)
	switch {
	case err == nil:
	case errors.Is(err, entities.ErrEmployeeNotFound):
		now := time.Now()
		employee := &entities.Employee{
			ID:             uuid.New(),
			OrganizationID: orgID,
			UserID:         &user.ID,
			FirstName:      user.FirstName,
			LastName:       user.LastName,
			Email:          user.Email,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.employees.Create(ctx, employee); err != nil {
			return err
		}
	default:
		return err
	}

	s.logger.Info("membership attached",
		zap.String("user_id", user.ID.String()),
		zap.String("organization_id", orgID.String()),
		zap.String("role", string(role)),
	)
	return nil
}
