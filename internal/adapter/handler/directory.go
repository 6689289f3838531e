package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/internal/adapter/dto/common"
	directoryDTO "github.com/johnquangdev/meeting-insights/internal/adapter/dto/directory"
	"github.com/johnquangdev/meeting-insights/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-insights/internal/usecase/directory"
)

// DirectoryService serves teams, employees and departments
type DirectoryService interface {
	ListTeams(ctx context.Context, p entities.Principal) ([]*entities.Team, error)
	GetTeam(ctx context.Context, p entities.Principal, id uuid.UUID) (*entities.Team, error)
	CreateTeam(ctx context.Context, p entities.Principal, in directory.CreateTeamInput) (*entities.Team, error)
	DeleteTeam(ctx context.Context, p entities.Principal, id uuid.UUID) error
	ListEmployees(ctx context.Context, p entities.Principal) ([]*entities.Employee, error)
	AssignManager(ctx context.Context, p entities.Principal, employeeID uuid.UUID, managerID *uuid.UUID) (*entities.Employee, error)
	ListDepartments(ctx context.Context, p entities.Principal) ([]*entities.Department, error)
	OwnEmployee(ctx context.Context, p entities.Principal) (*entities.Employee, error)
}

// Directory handles team, employee, department and profile requests
type Directory struct {
	service DirectoryService
	logger  *zap.Logger
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(service DirectoryService, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{service: service, logger: logger}
}

// Me handles GET /me
// @Summary      Current user
// @Tags         Directory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  directory.UserResponse
// @Router       /api/me [get]
func (h *Directory) Me(c echo.Context) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}
	employee, err := h.service.OwnEmployee(c.Request().Context(), user.Principal())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToUserResponse(user, employee))
}

// ListTeams handles GET /teams
// @Summary      List accessible teams
// @Tags         Directory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.ListResponse
// @Router       /api/teams [get]
func (h *Directory) ListTeams(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	teams, err := h.service.ListTeams(c.Request().Context(), p)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, common.ListResponse{Items: presenter.ToTeamResponses(teams), Total: len(teams)})
}

// GetTeam handles GET /teams/:id
// @Summary      Get a team
// @Tags         Directory
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Team ID"
// @Success      200  {object}  directory.TeamResponse
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/teams/{id} [get]
func (h *Directory) GetTeam(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	team, err := h.service.GetTeam(c.Request().Context(), p, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToTeamResponse(team))
}

// CreateTeam handles POST /teams
// @Summary      Create a team
// @Tags         Directory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      directory.CreateTeamRequest  true  "Team"
// @Success      201      {object}  directory.TeamResponse
// @Failure      400      {object}  map[string]interface{}
// @Failure      403      {object}  map[string]interface{}
// @Router       /api/teams [post]
func (h *Directory) CreateTeam(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req directoryDTO.CreateTeamRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	in := directory.CreateTeamInput{Name: req.Name}
	if in.DepartmentID, err = optionalUUID(req.DepartmentID); err != nil {
		return HandleError(h.logger, c, err)
	}
	if in.OwnerID, err = optionalUUID(req.UserID); err != nil {
		return HandleError(h.logger, c, err)
	}

	team, err := h.service.CreateTeam(c.Request().Context(), p, in)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleCreated(h.logger, c, presenter.ToTeamResponse(team))
}

// DeleteTeam handles DELETE /teams/:id
// @Summary      Delete a team
// @Tags         Directory
// @Security     BearerAuth
// @Param        id   path  string  true  "Team ID"
// @Success      200
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/teams/{id} [delete]
func (h *Directory) DeleteTeam(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := h.service.DeleteTeam(c.Request().Context(), p, id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]string{"id": id.String()})
}

// ListEmployees handles GET /employees
// @Summary      List accessible employees
// @Tags         Directory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.ListResponse
// @Router       /api/employees [get]
func (h *Directory) ListEmployees(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	employees, err := h.service.ListEmployees(c.Request().Context(), p)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, common.ListResponse{Items: presenter.ToEmployeeResponses(employees), Total: len(employees)})
}

// AssignManager handles PUT /employees/:id/manager
// @Summary      Set or clear an employee's manager
// @Tags         Directory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                          true  "Employee ID"
// @Param        request  body      directory.AssignManagerRequest  true  "Manager"
// @Success      200      {object}  directory.EmployeeResponse
// @Failure      400      {object}  map[string]interface{}
// @Router       /api/employees/{id}/manager [put]
func (h *Directory) AssignManager(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	var req directoryDTO.AssignManagerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	managerID, err := optionalUUID(req.ManagerID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	employee, err := h.service.AssignManager(c.Request().Context(), p, id, managerID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToEmployeeResponse(employee))
}

// ListDepartments handles GET /departments
// @Summary      List accessible departments
// @Tags         Directory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.ListResponse
// @Router       /api/departments [get]
func (h *Directory) ListDepartments(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	departments, err := h.service.ListDepartments(c.Request().Context(), p)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, common.ListResponse{Items: presenter.ToDepartmentResponses(departments), Total: len(departments)})
}

func optionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, errors.ErrInvalidArgument("invalid uuid").WithDetail("value", *s)
	}
	return &id, nil
}
