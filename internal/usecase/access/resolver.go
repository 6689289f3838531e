package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/domain/repositories"
)

// Resolver computes which teams, employees, meetings and departments a principal may read.
// Absence of access is an empty result; errors are reserved for query failures.
type Resolver struct {
	teams       repositories.TeamRepository
	employees   repositories.EmployeeRepository
	departments repositories.DepartmentRepository
	meetings    repositories.MeetingRepository
	logger      *zap.Logger
}

// NewResolver creates a new access control resolver
func NewResolver(
	teams repositories.TeamRepository,
	employees repositories.EmployeeRepository,
	departments repositories.DepartmentRepository,
	meetings repositories.MeetingRepository,
	logger *zap.Logger,
) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		teams:       teams,
		employees:   employees,
		departments: departments,
		meetings:    meetings,
		logger:      logger,
	}
}

// AccessibleTeams returns the teams the principal may read
func (r *Resolver) AccessibleTeams(ctx context.Context, p entities.Principal) ([]*entities.Team, error) {
	if !p.HasOrganization() {
		return []*entities.Team{}, nil
	}
	orgID := *p.OrganizationID

	switch p.Role {
	case entities.RoleAdmin:
		return r.teams.ListByOrganization(ctx, orgID)
	case entities.RoleManager:
		return r.managerTeams(ctx, orgID, p.UserID)
	default:
		team, err := r.ownTeam(ctx, orgID, p.UserID)
		if err != nil || team == nil {
			return []*entities.Team{}, err
		}
		return []*entities.Team{team}, nil
	}
}

// AccessibleEmployees returns the employees the principal may read
func (r *Resolver) AccessibleEmployees(ctx context.Context, p entities.Principal) ([]*entities.Employee, error) {
	if !p.HasOrganization() {
		return []*entities.Employee{}, nil
	}
	orgID := *p.OrganizationID

	if p.Role == entities.RoleAdmin {
		return r.employees.ListByOrganization(ctx, orgID)
	}

	teams, err := r.AccessibleTeams(ctx, p)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return []*entities.Employee{}, nil
	}
	return r.employees.ListByTeams(ctx, orgID, teamIDs(teams))
}

// AccessibleMeetings returns the meetings the principal may read. Managers see meetings
// they or their descendant managers ran plus meetings of employees in their teams;
// users only see meetings they took part in.
func (r *Resolver) AccessibleMeetings(ctx context.Context, p entities.Principal) ([]*entities.Meeting, error) {
	if !p.HasOrganization() {
		return []*entities.Meeting{}, nil
	}
	orgID := *p.OrganizationID

	switch p.Role {
	case entities.RoleAdmin:
		return r.meetings.ListByOrganization(ctx, orgID)
	case entities.RoleManager:
		managers, err := r.hierarchyManagers(ctx, orgID, p.UserID)
		if err != nil {
			return nil, err
		}
		employees, err := r.AccessibleEmployees(ctx, p)
		if err != nil {
			return nil, err
		}
		return r.meetings.ListByParticipants(ctx, orgID, managers, employeeIDs(employees))
	default:
		var employeeIDs []uuid.UUID
		own, err := r.ownEmployee(ctx, orgID, p.UserID)
		if err != nil {
			return nil, err
		}
		if own != nil {
			employeeIDs = append(employeeIDs, own.ID)
		}
		return r.meetings.ListByParticipants(ctx, orgID, []uuid.UUID{p.UserID}, employeeIDs)
	}
}

// AccessibleDepartments returns the departments the principal may read
func (r *Resolver) AccessibleDepartments(ctx context.Context, p entities.Principal) ([]*entities.Department, error) {
	if !p.HasOrganization() {
		return []*entities.Department{}, nil
	}
	orgID := *p.OrganizationID

	if p.Role == entities.RoleAdmin {
		return r.departments.ListByOrganization(ctx, orgID)
	}

	var ids []uuid.UUID
	seen := make(map[uuid.UUID]struct{})
	add := func(id uuid.UUID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	if p.Role == entities.RoleManager {
		headed, err := r.departments.ListByHead(ctx, orgID, p.UserID)
		if err != nil {
			return nil, err
		}
		for _, d := range headed {
			add(d.ID)
		}
	}

	teams, err := r.AccessibleTeams(ctx, p)
	if err != nil {
		return nil, err
	}
	for _, t := range teams {
		if t.DepartmentID != nil {
			add(*t.DepartmentID)
		}
	}

	if len(ids) == 0 {
		return []*entities.Department{}, nil
	}
	return r.departments.ListByIDs(ctx, orgID, ids)
}

// Team returns one accessible team, or ErrTeamNotFound when it is outside the principal's scope
func (r *Resolver) Team(ctx context.Context, p entities.Principal, id uuid.UUID) (*entities.Team, error) {
	teams, err := r.AccessibleTeams(ctx, p)
	if err != nil {
		return nil, err
	}
	for _, t := range teams {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, entities.ErrTeamNotFound
}

// Employee returns one accessible employee, or ErrEmployeeNotFound when it is outside the principal's scope
func (r *Resolver) Employee(ctx context.Context, p entities.Principal, id uuid.UUID) (*entities.Employee, error) {
	employees, err := r.AccessibleEmployees(ctx, p)
	if err != nil {
		return nil, err
	}
	for _, e := range employees {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, entities.ErrEmployeeNotFound
}

// CanViewMeeting reports whether the meeting is in the principal's accessible set
func (r *Resolver) CanViewMeeting(ctx context.Context, p entities.Principal, meetingID uuid.UUID) (bool, error) {
	meetings, err := r.AccessibleMeetings(ctx, p)
	if err != nil {
		return false, err
	}
	for _, m := range meetings {
		if m.ID == meetingID {
			return true, nil
		}
	}
	return false, nil
}

// managerTeams unions the teams owned by the manager's hierarchy with the teams
// of departments the manager heads
func (r *Resolver) managerTeams(ctx context.Context, orgID, userID uuid.UUID) ([]*entities.Team, error) {
	managers, err := r.hierarchyManagers(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	owned, err := r.teams.ListByOwners(ctx, orgID, managers)
	if err != nil {
		return nil, err
	}

	headed, err := r.departments.ListByHead(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	var departmentIDs []uuid.UUID
	for _, d := range headed {
		departmentIDs = append(departmentIDs, d.ID)
	}
	departmental, err := r.teams.ListByDepartments(ctx, orgID, departmentIDs)
	if err != nil {
		return nil, err
	}

	result := make([]*entities.Team, 0, len(owned)+len(departmental))
	seen := make(map[uuid.UUID]struct{}, cap(result))
	for _, t := range append(owned, departmental...) {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		result = append(result, t)
	}
	return result, nil
}

// hierarchyManagers walks the reporting graph breadth-first from the manager's own
// employee record and returns the user ids of the root plus every descendant
// holding the MANAGER role. A manager without an employee record is a root of one.
func (r *Resolver) hierarchyManagers(ctx context.Context, orgID, userID uuid.UUID) ([]uuid.UUID, error) {
	managers := []uuid.UUID{userID}

	root, err := r.ownEmployee(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return managers, nil
	}

	collected := map[uuid.UUID]struct{}{userID: {}}
	visited := map[uuid.UUID]struct{}{root.ID: {}}
	queue := []uuid.UUID{root.ID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		reports, err := r.employees.ListDirectReports(ctx, orgID, current)
		if err != nil {
			return nil, err
		}
		for _, report := range reports {
			if _, ok := visited[report.ID]; ok {
				r.logger.Warn("reporting hierarchy cycle",
					zap.String("organization_id", orgID.String()),
					zap.String("employee_id", report.ID.String()),
				)
				continue
			}
			visited[report.ID] = struct{}{}
			queue = append(queue, report.ID)

			if report.IsManagerUser() && report.UserID != nil {
				if _, ok := collected[*report.UserID]; !ok {
					collected[*report.UserID] = struct{}{}
					managers = append(managers, *report.UserID)
				}
			}
		}
	}
	return managers, nil
}

// ownEmployee returns the principal's employee record, or nil when there is none
func (r *Resolver) ownEmployee(ctx context.Context, orgID, userID uuid.UUID) (*entities.Employee, error) {
	employee, err := r.employees.FindByUserID(ctx, orgID, userID)
	if err != nil {
		if errors.Is(err, entities.ErrEmployeeNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find employee for user %s: %w", userID, err)
	}
	return employee, nil
}

func (r *Resolver) ownTeam(ctx context.Context, orgID, userID uuid.UUID) (*entities.Team, error) {
	own, err := r.ownEmployee(ctx, orgID, userID)
	if err != nil || own == nil || own.TeamID == nil {
		return nil, err
	}
	team, err := r.teams.FindByID(ctx, *own.TeamID)
	if err != nil {
		if errors.Is(err, entities.ErrTeamNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if team.OrganizationID != orgID {
		return nil, nil
	}
	return team, nil
}

func teamIDs(teams []*entities.Team) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(teams))
	for _, t := range teams {
		ids = append(ids, t.ID)
	}
	return ids
}

func employeeIDs(employees []*entities.Employee) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(employees))
	for _, e := range employees {
		ids = append(ids, e.ID)
	}
	return ids
}
