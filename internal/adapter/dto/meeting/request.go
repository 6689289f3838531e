package meeting

import "time"

// ScheduleMeetingRequest represents the request to schedule a recorded meeting
type ScheduleMeetingRequest struct {
	EmployeeID      string    `json:"employee_id" validate:"required,uuid"`
	MeetingType     string    `json:"meeting_type" validate:"required,meeting_type"`
	Title           string    `json:"title,omitempty" validate:"omitempty,max=255"`
	ScheduledTime   time.Time `json:"scheduled_time" validate:"required"`
	DurationMinutes *int      `json:"duration_minutes,omitempty" validate:"omitempty,min=5,max=480"`
	TimeZone        string    `json:"time_zone,omitempty" validate:"omitempty,iana_tz"`
	Platform        string    `json:"platform,omitempty" validate:"omitempty,max=32"`
	MeetingURL      string    `json:"meeting_url,omitempty" validate:"omitempty,url"`
}
