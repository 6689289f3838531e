package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MeetingType is the closed set of recorded conversation kinds
type MeetingType string

const (
	MeetingTypeOneOnOne          MeetingType = "ONE_ON_ONE"
	MeetingTypeSixMonthReview    MeetingType = "SIX_MONTH_REVIEW"
	MeetingTypeTwelveMonthReview MeetingType = "TWELVE_MONTH_REVIEW"
)

const defaultMeetingDurationMinutes = 60

// IsValid checks if the meeting type is known
func (t MeetingType) IsValid() bool {
	switch t {
	case MeetingTypeOneOnOne, MeetingTypeSixMonthReview, MeetingTypeTwelveMonthReview:
		return true
	}
	return false
}

// IsReview reports whether the meeting is a performance review
func (t MeetingType) IsReview() bool {
	return t == MeetingTypeSixMonthReview || t == MeetingTypeTwelveMonthReview
}

// MeetingStatus is the lifecycle state of a meeting. Values outside the constants
// below come from the recording bot (uppercased provider status codes).
type MeetingStatus string

const (
	MeetingStatusPendingBotInvite       MeetingStatus = "PENDING_BOT_INVITE"
	MeetingStatusBotInvited             MeetingStatus = "BOT_INVITED"
	MeetingStatusInWaitingRoom          MeetingStatus = "IN_WAITING_ROOM"
	MeetingStatusGeneratingInsights     MeetingStatus = "GENERATING_INSIGHTS"
	MeetingStatusCompleted              MeetingStatus = "COMPLETED"
	MeetingStatusDidNotHappen           MeetingStatus = "DID_NOT_HAPPEN"
	MeetingStatusErrorTranscription     MeetingStatus = "ERROR_TRANSCRIPTION"
	MeetingStatusErrorMissingTranscript MeetingStatus = "ERROR_MISSING_TRANSCRIPT"
	MeetingStatusErrorNLP               MeetingStatus = "ERROR_NLP"
)

// StatusFromProviderCode maps a bot provider status code (e.g. "in_waiting_room") to a MeetingStatus
func StatusFromProviderCode(code string) MeetingStatus {
	return MeetingStatus(strings.ToUpper(strings.TrimSpace(code)))
}

// IsTerminal reports whether no further webhook event may change the status
func (s MeetingStatus) IsTerminal() bool {
	switch s {
	case MeetingStatusCompleted,
		MeetingStatusDidNotHappen,
		MeetingStatusErrorTranscription,
		MeetingStatusErrorMissingTranscript,
		MeetingStatusErrorNLP:
		return true
	}
	return false
}

// AcceptsStatusChange reports whether a bot status_change event may overwrite this status
func (s MeetingStatus) AcceptsStatusChange() bool {
	return !s.IsTerminal() && s != MeetingStatusGeneratingInsights
}

// AcceptsCompletion reports whether a bot complete event may still be processed.
// GENERATING_INSIGHTS is accepted so a redelivery can finish an interrupted run.
func (s MeetingStatus) AcceptsCompletion() bool {
	return !s.IsTerminal()
}

// Meeting is one scheduled or ad-hoc recorded conversation
type Meeting struct {
	ID              uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrganizationID  uuid.UUID     `json:"organization_id" gorm:"type:uuid;not null;index"`
	ManagerID       uuid.UUID     `json:"manager_id" gorm:"type:uuid;not null;index"`
	EmployeeID      uuid.UUID     `json:"employee_id" gorm:"type:uuid;not null;index"`
	MeetingType     MeetingType   `json:"meeting_type" gorm:"type:varchar(32);not null"`
	Status          MeetingStatus `json:"status" gorm:"type:varchar(64);not null;index;default:'PENDING_BOT_INVITE'"`
	Title           string        `json:"title" gorm:"type:varchar(255)"`
	ScheduledTime   time.Time     `json:"scheduled_time" gorm:"type:timestamp;not null"`
	DurationMinutes *int          `json:"duration_minutes,omitempty"`
	TimeZone        string        `json:"time_zone" gorm:"type:varchar(64);default:'UTC';not null"`
	Platform        string        `json:"platform" gorm:"type:varchar(32)"`
	MeetingURL      *string       `json:"meeting_url,omitempty" gorm:"type:text"`
	ExternalBotID   *string       `json:"external_bot_id,omitempty" gorm:"type:varchar(255);uniqueIndex"`
	AudioFileURL    *string       `json:"audio_file_url,omitempty" gorm:"type:text"`
	CreatedAt       time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	Manager  *User     `json:"manager,omitempty" gorm:"foreignKey:ManagerID"`
	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeID"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a meeting awaiting its bot invitation
func NewMeeting(orgID, managerID, employeeID uuid.UUID, meetingType MeetingType, scheduled time.Time, timeZone string) *Meeting {
	now := time.Now()
	if timeZone == "" {
		timeZone = "UTC"
	}
	return &Meeting{
		ID:             uuid.New(),
		OrganizationID: orgID,
		ManagerID:      managerID,
		EmployeeID:     employeeID,
		MeetingType:    meetingType,
		Status:         MeetingStatusPendingBotInvite,
		ScheduledTime:  scheduled,
		TimeZone:       timeZone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Duration returns the scheduled length, defaulting to 60 minutes when unset
func (m *Meeting) Duration() time.Duration {
	minutes := defaultMeetingDurationMinutes
	if m.DurationMinutes != nil && *m.DurationMinutes > 0 {
		minutes = *m.DurationMinutes
	}
	return time.Duration(minutes) * time.Minute
}
