package meeting

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MeetingResponse represents a meeting in API responses
type MeetingResponse struct {
	ID              uuid.UUID `json:"id"`
	OrganizationID  uuid.UUID `json:"organization_id"`
	ManagerID       uuid.UUID `json:"manager_id"`
	EmployeeID      uuid.UUID `json:"employee_id"`
	MeetingType     string    `json:"meeting_type"`
	Status          string    `json:"status"`
	Title           string    `json:"title,omitempty"`
	ScheduledTime   time.Time `json:"scheduled_time"`
	DurationMinutes int       `json:"duration_minutes"`
	TimeZone        string    `json:"time_zone"`
	Platform        string    `json:"platform,omitempty"`
	MeetingURL      *string   `json:"meeting_url,omitempty"`
	ExternalBotID   *string   `json:"external_bot_id,omitempty"`
	AudioFileURL    *string   `json:"audio_file_url,omitempty"`
	EmployeeName    string    `json:"employee_name,omitempty"`
	ManagerName     string    `json:"manager_name,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ScheduleMeetingResponse reports the created meeting and the bot invitation result
type ScheduleMeetingResponse struct {
	Meeting        MeetingResponse `json:"meeting"`
	BotInvited     bool            `json:"bot_invited"`
	BotInviteError string          `json:"bot_invite_error,omitempty"`
}

// TranscriptResponse represents a stored transcript
type TranscriptResponse struct {
	Content   string          `json:"content"`
	Segments  json.RawMessage `json:"segments,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// InsightResponse represents one extracted insight
type InsightResponse struct {
	ID      uuid.UUID `json:"id"`
	Type    string    `json:"type"`
	Content string    `json:"content"`
}

// MeetingDetailResponse is a meeting with its transcript and insights
type MeetingDetailResponse struct {
	MeetingResponse
	Transcript *TranscriptResponse `json:"transcript,omitempty"`
	Insights   []InsightResponse   `json:"insights"`
}
