package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/domain/repositories"
)

// DepartmentRepository implements the department repository interface using GORM
type DepartmentRepository struct {
	db *gorm.DB
}

var _ repositories.DepartmentRepository = (*DepartmentRepository)(nil)

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*entities.Department, error) {
	var departments []*entities.Department
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("name ASC").
		Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

// ListByHead lists departments headed by the user
func (r *DepartmentRepository) ListByHead(ctx context.Context, orgID, userID uuid.UUID) ([]*entities.Department, error) {
	var departments []*entities.Department
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND head_id = ?", orgID, userID).
		Order("name ASC").
		Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("failed to list departments by head: %w", err)
	}
	return departments, nil
}

func (r *DepartmentRepository) ListByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*entities.Department, error) {
	if len(ids) == 0 {
		return []*entities.Department{}, nil
	}
	var departments []*entities.Department
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id IN ?", orgID, ids).
		Order("name ASC").
		Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("failed to list departments by IDs: %w", err)
	}
	return departments, nil
}
