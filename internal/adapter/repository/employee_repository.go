package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/domain/repositories"
)

// EmployeeRepository implements the employee repository interface using GORM
type EmployeeRepository struct {
	db *gorm.DB
}

var _ repositories.EmployeeRepository = (*EmployeeRepository)(nil)

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create creates a new employee
func (r *EmployeeRepository) Create(ctx context.Context, employee *entities.Employee) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(employee).Error; err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

// FindByID finds an employee by ID
func (r *EmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Employee, error) {
	var employee entities.Employee
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee by ID: %w", err)
	}
	return &employee, nil
}

// FindByUserID finds the employee record linked to a user inside an organization
func (r *EmployeeRepository) FindByUserID(ctx context.Context, orgID, userID uuid.UUID) (*entities.Employee, error) {
	var employee entities.Employee
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee by user: %w", err)
	}
	return &employee, nil
}

// ListDirectReports lists employees reporting to the given employee, with their linked users
func (r *EmployeeRepository) ListDirectReports(ctx context.Context, orgID, managerEmployeeID uuid.UUID) ([]*entities.Employee, error) {
	var employees []*entities.Employee
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("organization_id = ? AND manager_id = ?", orgID, managerEmployeeID).
		Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("failed to list direct reports: %w", err)
	}
	return employees, nil
}

// ListByOrganization lists every employee in an organization
func (r *EmployeeRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*entities.Employee, error) {
	var employees []*entities.Employee
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("last_name ASC, first_name ASC").
		Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// ListByTeams lists employees belonging to any of the given teams
func (r *EmployeeRepository) ListByTeams(ctx context.Context, orgID uuid.UUID, teamIDs []uuid.UUID) ([]*entities.Employee, error) {
	if len(teamIDs) == 0 {
		return []*entities.Employee{}, nil
	}
	var employees []*entities.Employee
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND team_id IN ?", orgID, teamIDs).
		Order("last_name ASC, first_name ASC").
		Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("failed to list employees by teams: %w", err)
	}
	return employees, nil
}

// UpdateManager sets or clears the employee's manager
func (r *EmployeeRepository) UpdateManager(ctx context.Context, employeeID uuid.UUID, managerID *uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Employee{}).
		Where("id = ?", employeeID).
		Updates(map[string]interface{}{
			"manager_id": managerID,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update employee manager: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrEmployeeNotFound
	}
	return nil
}

// DeleteByUserID removes the employee record linked to a user
func (r *EmployeeRepository) DeleteByUserID(ctx context.Context, orgID, userID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Delete(&entities.Employee{}).Error; err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}
