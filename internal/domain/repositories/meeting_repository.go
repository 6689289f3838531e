package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// Create creates a new meeting
	Create(ctx context.Context, meeting *entities.Meeting) error

	// FindByID retrieves a meeting with its manager and employee
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// FindByExternalBotID retrieves the meeting a bot webhook refers to
	FindByExternalBotID(ctx context.Context, botID string) (*entities.Meeting, error)

	// UpdateStatus sets the meeting status
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) error

	// MarkGeneratingInsights sets GENERATING_INSIGHTS and stores the recording URL
	MarkGeneratingInsights(ctx context.Context, id uuid.UUID, recordingURL *string) error

	// AttachBot stores the bot correlation id and moves the meeting to BOT_INVITED
	AttachBot(ctx context.Context, id uuid.UUID, botID string) error

	// ListByOrganization lists every meeting in an organization
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*entities.Meeting, error)

	// ListByParticipants lists meetings in an organization where manager_id is one of
	// managerIDs or employee_id is one of employeeIDs
	ListByParticipants(ctx context.Context, orgID uuid.UUID, managerIDs, employeeIDs []uuid.UUID) ([]*entities.Meeting, error)
}

// TranscriptRepository defines the interface for transcript data access
type TranscriptRepository interface {
	// Upsert creates or overwrites the transcript of a meeting
	Upsert(ctx context.Context, transcript *entities.Transcript) error

	// FindByMeetingID retrieves the transcript of a meeting
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Transcript, error)
}

// InsightRepository defines the interface for insight data access
type InsightRepository interface {
	// CreateBatch bulk-inserts insights
	CreateBatch(ctx context.Context, insights []*entities.Insight) error

	// ListByMeetingID lists the insights of a meeting
	ListByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.Insight, error)
}
