package presenter

import (
	directoryDTO "github.com/johnquangdev/meeting-insights/internal/adapter/dto/directory"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// ToUserResponse converts a User entity to UserResponse DTO; employee may be nil
func ToUserResponse(u *entities.User, employee *entities.Employee) *directoryDTO.UserResponse {
	if u == nil {
		return nil
	}

	response := &directoryDTO.UserResponse{
		ID:             u.ID,
		ExternalID:     u.ExternalID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Role:           string(u.Role),
		OrganizationID: u.OrganizationID,
	}
	if employee != nil {
		response.EmployeeID = &employee.ID
	}
	return response
}
