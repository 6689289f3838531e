package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	Create(ctx context.Context, team *entities.Team) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Team, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByOrganization lists every team in an organization
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*entities.Team, error)

	// ListByOwners lists teams managed by any of the given users
	ListByOwners(ctx context.Context, orgID uuid.UUID, userIDs []uuid.UUID) ([]*entities.Team, error)

	// ListByDepartments lists teams under any of the given departments
	ListByDepartments(ctx context.Context, orgID uuid.UUID, departmentIDs []uuid.UUID) ([]*entities.Team, error)
}

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	Create(ctx context.Context, employee *entities.Employee) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Employee, error)

	// FindByUserID finds the employee record linked to a user inside an organization
	FindByUserID(ctx context.Context, orgID, userID uuid.UUID) (*entities.Employee, error)

	// ListDirectReports lists employees whose manager is the given employee, with their users
	ListDirectReports(ctx context.Context, orgID, managerEmployeeID uuid.UUID) ([]*entities.Employee, error)

	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*entities.Employee, error)
	ListByTeams(ctx context.Context, orgID uuid.UUID, teamIDs []uuid.UUID) ([]*entities.Employee, error)

	// UpdateManager sets or clears the employee's manager
	UpdateManager(ctx context.Context, employeeID uuid.UUID, managerID *uuid.UUID) error

	// DeleteByUserID removes the employee record linked to a user
	DeleteByUserID(ctx context.Context, orgID, userID uuid.UUID) error
}

// DepartmentRepository defines the interface for department data access
type DepartmentRepository interface {
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*entities.Department, error)

	// ListByHead lists departments headed by the user
	ListByHead(ctx context.Context, orgID, userID uuid.UUID) ([]*entities.Department, error)

	ListByIDs(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]*entities.Department, error)
}
