package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/domain/repositories"
)

// OrganizationRepository implements the organization repository interface using GORM
type OrganizationRepository struct {
	db *gorm.DB
}

var _ repositories.OrganizationRepository = (*OrganizationRepository)(nil)

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Organization, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *OrganizationRepository) FindByExternalID(ctx context.Context, externalID string) (*entities.Organization, error) {
	return r.first(ctx, "external_id = ?", externalID)
}

func (r *OrganizationRepository) first(ctx context.Context, query string, arg interface{}) (*entities.Organization, error) {
	var org entities.Organization
	if err := r.db.WithContext(ctx).Where(query, arg).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return &org, nil
}

func (r *OrganizationRepository) Create(ctx context.Context, org *entities.Organization) error {
	if err := r.db.WithContext(ctx).Create(org).Error; err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}
	return nil
}

func (r *OrganizationRepository) Update(ctx context.Context, org *entities.Organization) error {
	if err := r.db.WithContext(ctx).Save(org).Error; err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
	}
	return nil
}

// DeleteByExternalID soft-deletes an organization
func (r *OrganizationRepository) DeleteByExternalID(ctx context.Context, externalID string) error {
	result := r.db.WithContext(ctx).Where("external_id = ?", externalID).Delete(&entities.Organization{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete organization: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrOrganizationNotFound
	}
	return nil
}

// FindOrCreateDefault returns the single-tenant fallback organization
func (r *OrganizationRepository) FindOrCreateDefault(ctx context.Context, name string) (*entities.Organization, error) {
	var org entities.Organization
	err := r.db.WithContext(ctx).
		Where(entities.Organization{IsDefault: true}).
		Attrs(entities.Organization{ID: uuid.New(), Name: name}).
		FirstOrCreate(&org).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve default organization: %w", err)
	}
	return &org, nil
}
