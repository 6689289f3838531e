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

// TeamRepository implements the team repository interface using GORM
type TeamRepository struct {
	db *gorm.DB
}

var _ repositories.TeamRepository = (*TeamRepository)(nil)

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create creates a new team
func (r *TeamRepository) Create(ctx context.Context, team *entities.Team) error {
	if err := r.db.WithContext(ctx).Create(team).Error; err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

// FindByID finds a team by ID
func (r *TeamRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Team, error) {
	var team entities.Team
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team by ID: %w", err)
	}
	return &team, nil
}

// Delete removes a team and unassigns its employees
func (r *TeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Employee{}).
			Where("team_id = ?", id).
			Update("team_id", nil).Error; err != nil {
			return fmt.Errorf("failed to unassign team employees: %w", err)
		}
		result := tx.Delete(&entities.Team{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete team: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return entities.ErrTeamNotFound
		}
		return nil
	})
}

// ListByOrganization lists every team in an organization
func (r *TeamRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*entities.Team, error) {
	var teams []*entities.Team
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("name ASC").
		Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// ListByOwners lists teams managed by any of the given users
func (r *TeamRepository) ListByOwners(ctx context.Context, orgID uuid.UUID, userIDs []uuid.UUID) ([]*entities.Team, error) {
	if len(userIDs) == 0 {
		return []*entities.Team{}, nil
	}
	var teams []*entities.Team
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id IN ?", orgID, userIDs).
		Order("name ASC").
		Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("failed to list teams by owners: %w", err)
	}
	return teams, nil
}

// ListByDepartments lists teams under any of the given departments
func (r *TeamRepository) ListByDepartments(ctx context.Context, orgID uuid.UUID, departmentIDs []uuid.UUID) ([]*entities.Team, error) {
	if len(departmentIDs) == 0 {
		return []*entities.Team{}, nil
	}
	var teams []*entities.Team
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND department_id IN ?", orgID, departmentIDs).
		Order("name ASC").
		Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("failed to list teams by departments: %w", err)
	}
	return teams, nil
}
