package directory

// CreateTeamRequest represents the request to create a team
type CreateTeamRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=255"`
	DepartmentID *string `json:"department_id,omitempty" validate:"omitempty,uuid"`
	UserID       *string `json:"user_id,omitempty" validate:"omitempty,uuid"`
}

// AssignManagerRequest sets or, with a null manager_id, clears an employee's manager
type AssignManagerRequest struct {
	ManagerID *string `json:"manager_id" validate:"omitempty,uuid"`
}
