package directory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/domain/repositories"
)

// Reader is the part of the access resolver the directory service reads through
type Reader interface {
	AccessibleTeams(ctx context.Context, p entities.Principal) ([]*entities.Team, error)
	AccessibleEmployees(ctx context.Context, p entities.Principal) ([]*entities.Employee, error)
	AccessibleDepartments(ctx context.Context, p entities.Principal) ([]*entities.Department, error)
	Team(ctx context.Context, p entities.Principal, id uuid.UUID) (*entities.Team, error)
	Employee(ctx context.Context, p entities.Principal, id uuid.UUID) (*entities.Employee, error)
}

// CreateTeamInput describes a new team
type CreateTeamInput struct {
	Name         string
	DepartmentID *uuid.UUID
	OwnerID      *uuid.UUID
}

// Service handles team and reporting-line mutations and the access-filtered directory reads
type Service struct {
	teams       repositories.TeamRepository
	employees   repositories.EmployeeRepository
	departments repositories.DepartmentRepository
	reader      Reader
	logger      *zap.Logger
}

// NewService creates a new directory service
func NewService(
	teams repositories.TeamRepository,
	employees repositories.EmployeeRepository,
	departments repositories.DepartmentRepository,
	reader Reader,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		teams:       teams,
		employees:   employees,
		departments: departments,
		reader:      reader,
		logger:      logger,
	}
}

// ListTeams returns the teams the principal may read
func (s *Service) ListTeams(ctx context.Context, p entities.Principal) ([]*entities.Team, error) {
	return s.reader.AccessibleTeams(ctx, p)
}

// GetTeam returns one team in the principal's scope
func (s *Service) GetTeam(ctx context.Context, p entities.Principal, id uuid.UUID) (*entities.Team, error) {
	return s.reader.Team(ctx, p, id)
}

// ListEmployees returns the employees the principal may read
func (s *Service) ListEmployees(ctx context.Context, p entities.Principal) ([]*entities.Employee, error) {
	return s.reader.AccessibleEmployees(ctx, p)
}

// ListDepartments returns the departments the principal may read
func (s *Service) ListDepartments(ctx context.Context, p entities.Principal) ([]*entities.Department, error) {
	return s.reader.AccessibleDepartments(ctx, p)
}

// CreateTeam creates a team in the principal's organization. A manager always owns
// the teams they create; an admin may name any owner.
func (s *Service) CreateTeam(ctx context.Context, p entities.Principal, in CreateTeamInput) (*entities.Team, error) {
	if !p.HasOrganization() {
		return nil, entities.ErrForbidden
	}
	orgID := *p.OrganizationID

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, entities.ErrInvalidTeamName
	}

	if in.DepartmentID != nil {
		depts, err := s.departments.ListByIDs(ctx, orgID, []uuid.UUID{*in.DepartmentID})
		if err != nil {
			return nil, err
		}
		if len(depts) == 0 {
			return nil, entities.ErrDepartmentNotFound
		}
	}

	owner := in.OwnerID
	if p.Role != entities.RoleAdmin || owner == nil {
		id := p.UserID
		owner = &id
	}

	now := time.Now()
	team := &entities.Team{
		ID:             uuid.New(),
		OrganizationID: orgID,
		DepartmentID:   in.DepartmentID,
		UserID:         owner,
		Name:           name,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, err
	}

	s.logger.Info("team created",
		zap.String("team_id", team.ID.String()),
		zap.String("organization_id", orgID.String()),
	)
	return team, nil
}

// DeleteTeam removes a team of the principal's organization and unassigns its members
func (s *Service) DeleteTeam(ctx context.Context, p entities.Principal, id uuid.UUID) error {
	if !p.HasOrganization() {
		return entities.ErrTeamNotFound
	}
	team, err := s.teams.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if team.OrganizationID != *p.OrganizationID {
		return entities.ErrTeamNotFound
	}
	if err := s.teams.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("team deleted", zap.String("team_id", id.String()))
	return nil
}

// AssignManager sets or, with a nil managerID, clears an employee's manager. The employee
// must be in the principal's scope and the manager in the same organization; an
// assignment that would make the employee its own ancestor is rejected.
func (s *Service) AssignManager(ctx context.Context, p entities.Principal, employeeID uuid.UUID, managerID *uuid.UUID) (*entities.Employee, error) {
	employee, err := s.reader.Employee(ctx, p, employeeID)
	if err != nil {
		return nil, err
	}

	if managerID != nil {
		manager, err := s.employees.FindByID(ctx, *managerID)
		if err != nil {
			return nil, err
		}
		if manager.OrganizationID != employee.OrganizationID {
			return nil, entities.ErrEmployeeNotFound
		}
		if err := s.checkCycle(ctx, employee.ID, manager); err != nil {
			return nil, err
		}
	}

	if err := s.employees.UpdateManager(ctx, employee.ID, managerID); err != nil {
		return nil, err
	}
	employee.ManagerID = managerID

	fields := []zap.Field{zap.String("employee_id", employee.ID.String())}
	if managerID != nil {
		fields = append(fields, zap.String("manager_id", managerID.String()))
	}
	s.logger.Info("manager assigned", fields...)
	return employee, nil
}

// checkCycle walks up from the proposed manager; reaching the employee means a cycle
func (s *Service) checkCycle(ctx context.Context, employeeID uuid.UUID, manager *entities.Employee) error {
	visited := map[uuid.UUID]struct{}{}
	current := manager
	for current != nil {
		if current.ID == employeeID {
			return entities.ErrHierarchyCycle
		}
		if _, ok := visited[current.ID]; ok {
			// existing loop above the manager that does not include the employee
			return nil
		}
		visited[current.ID] = struct{}{}
		if current.ManagerID == nil {
			return nil
		}
		next, err := s.employees.FindByID(ctx, *current.ManagerID)
		if err != nil {
			if errors.Is(err, entities.ErrEmployeeNotFound) {
				return nil
			}
			return err
		}
		current = next
	}
	return nil
}

// OwnEmployee returns the principal's employee record, or nil when the user has none
func (s *Service) OwnEmployee(ctx context.Context, p entities.Principal) (*entities.Employee, error) {
	if !p.HasOrganization() {
		return nil, nil
	}
	e, err := s.employees.FindByUserID(ctx, *p.OrganizationID, p.UserID)
	if errors.Is(err, entities.ErrEmployeeNotFound) {
		return nil, nil
	}
	return e, err
}
