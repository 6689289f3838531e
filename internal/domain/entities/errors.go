package entities

import "errors"

// Domain errors
var (
	// User errors
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidExternalID = errors.New("invalid external id")
	ErrInvalidRole       = errors.New("invalid role")

	// Organization errors
	ErrOrganizationNotFound = errors.New("organization not found")

	// Directory errors
	ErrTeamNotFound       = errors.New("team not found")
	ErrInvalidTeamName    = errors.New("team name is required")
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrHierarchyCycle     = errors.New("manager assignment creates a cycle")

	// Meeting errors
	ErrMeetingNotFound     = errors.New("meeting not found")
	ErrTranscriptNotFound  = errors.New("transcript not found")
	ErrInvalidMeetingType  = errors.New("invalid meeting type")
	ErrInvalidScheduleTime = errors.New("invalid scheduled time")

	// Generic errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
