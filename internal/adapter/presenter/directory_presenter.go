package presenter

import (
	directoryDTO "github.com/johnquangdev/meeting-insights/internal/adapter/dto/directory"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// ToTeamResponse converts a Team entity to TeamResponse DTO
func ToTeamResponse(t *entities.Team) *directoryDTO.TeamResponse {
	if t == nil {
		return nil
	}
	return &directoryDTO.TeamResponse{
		ID:             t.ID,
		OrganizationID: t.OrganizationID,
		DepartmentID:   t.DepartmentID,
		UserID:         t.UserID,
		Name:           t.Name,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// ToTeamResponses converts a slice of teams; the result is never nil
func ToTeamResponses(teams []*entities.Team) []*directoryDTO.TeamResponse {
	out := make([]*directoryDTO.TeamResponse, 0, len(teams))
	for _, t := range teams {
		out = append(out, ToTeamResponse(t))
	}
	return out
}

// ToEmployeeResponse converts an Employee entity to EmployeeResponse DTO
func ToEmployeeResponse(e *entities.Employee) *directoryDTO.EmployeeResponse {
	if e == nil {
		return nil
	}
	return &directoryDTO.EmployeeResponse{
		ID:             e.ID,
		OrganizationID: e.OrganizationID,
		TeamID:         e.TeamID,
		ManagerID:      e.ManagerID,
		UserID:         e.UserID,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Name:           e.DisplayName(),
		Email:          e.Email,
		Title:          e.Title,
	}
}

// ToEmployeeResponses converts a slice of employees; the result is never nil
func ToEmployeeResponses(employees []*entities.Employee) []*directoryDTO.EmployeeResponse {
	out := make([]*directoryDTO.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, ToEmployeeResponse(e))
	}
	return out
}

// ToDepartmentResponses converts a slice of departments; the result is never nil
func ToDepartmentResponses(departments []*entities.Department) []*directoryDTO.DepartmentResponse {
	out := make([]*directoryDTO.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		out = append(out, &directoryDTO.DepartmentResponse{
			ID:             d.ID,
			OrganizationID: d.OrganizationID,
			HeadID:         d.HeadID,
			Name:           d.Name,
		})
	}
	return out
}
